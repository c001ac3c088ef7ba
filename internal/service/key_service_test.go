package service

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"acc-wallet-core/pkg/keygen"
	"acc-wallet-core/pkg/keyvault"
	"acc-wallet-core/pkg/signer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWiper struct{ wiped bool }

func (f *fakeWiper) FindByPageUrl(url string) ([]*signer.LegacyRecord, error) { return nil, nil }
func (f *fakeWiper) WipeAll() error                                           { f.wiped = true; return nil }

func TestImportMnemonic(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	vault := keyvault.NewVault(keyvault.NewMemoryStore())
	svc := NewKeyService(vault, nil)

	url, err := svc.ImportMnemonic(mnemonic)
	require.NoError(t, err)

	// URL 与独立派生的 lite 身份一致
	priv, err := keygen.KeyFromMnemonic(mnemonic)
	require.NoError(t, err)
	want := keygen.LiteIdentityURL(priv.Public().(ed25519.PublicKey)).String()
	assert.Equal(t, want, url)

	// 种子按 hex 存进 Generation-B
	raw, err := vault.Retrieve(url)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(priv.Seed()), string(raw))

	// 非法助记词
	_, err = svc.ImportMnemonic("not a mnemonic")
	assert.ErrorIs(t, err, keygen.ErrInvalidMnemonic)
}

func TestGenerateKey(t *testing.T) {
	vault := keyvault.NewVault(keyvault.NewMemoryStore())
	svc := NewKeyService(vault, nil)

	mnemonic, url, err := svc.GenerateKey()
	require.NoError(t, err)
	assert.NotEmpty(t, mnemonic)

	// 生成即导入: 能直接取回
	raw, err := vault.Retrieve(url)
	require.NoError(t, err)
	assert.NotNil(t, raw)

	// 同一助记词重新导入落到同一 URL
	again, err := svc.ImportMnemonic(mnemonic)
	require.NoError(t, err)
	assert.Equal(t, url, again)
}

func TestClearAllKeysWipesBothGenerations(t *testing.T) {
	vault := keyvault.NewVault(keyvault.NewMemoryStore())
	require.NoError(t, vault.Store("acc://x", []byte("k")))

	legacy := &fakeWiper{}
	svc := NewKeyService(vault, legacy)
	svc.SetMasterPassphrase("pw")
	assert.True(t, svc.HasMasterPassphrase())

	require.NoError(t, svc.ClearAllKeys())
	assert.False(t, svc.HasMasterPassphrase())
	got, _ := vault.Retrieve("acc://x")
	assert.Nil(t, got)
	assert.True(t, legacy.wiped, "Generation-A 的行也要清掉")
}
