package service

import (
	"crypto/ed25519"
	"encoding/hex"

	"acc-wallet-core/pkg/keygen"
	"acc-wallet-core/pkg/keyvault"
	"acc-wallet-core/pkg/logger"
	"acc-wallet-core/pkg/signer"
)

// KeyService 密钥生命周期: 主密码设置/清除、助记词导入、全量重置。
// 签名路径上的读操作可以和这里的写操作并发, SetMasterPassphrase 和
// ClearAllKeys 由 Vault 内部的写锁串行化。
type KeyService struct {
	vault  *keyvault.Vault
	legacy signer.LegacyStore
}

func NewKeyService(vault *keyvault.Vault, legacy signer.LegacyStore) *KeyService {
	return &KeyService{vault: vault, legacy: legacy}
}

func (s *KeyService) SetMasterPassphrase(passphrase string) {
	s.vault.SetMasterPassphrase(passphrase)
}

func (s *KeyService) HasMasterPassphrase() bool {
	return s.vault.HasMasterPassphrase()
}

// ImportMnemonic 导入助记词, 派生 lite 身份并把私钥写进
// Generation-B 安全存储。返回 lite 身份 URL。
func (s *KeyService) ImportMnemonic(mnemonic string) (string, error) {
	priv, err := keygen.KeyFromMnemonic(mnemonic)
	if err != nil {
		return "", err
	}
	url := keygen.LiteIdentityURL(priv.Public().(ed25519.PublicKey)).String()

	// 新密钥一律走 Generation-B, hex 存储
	if err := s.vault.Store(url, []byte(hex.EncodeToString(priv.Seed()))); err != nil {
		return "", err
	}
	logger.Info("imported key for lite identity")
	return url, nil
}

// GenerateKey 生成新助记词并导入。返回 (助记词, lite 身份 URL)。
func (s *KeyService) GenerateKey() (string, string, error) {
	mnemonic, err := keygen.NewMnemonic()
	if err != nil {
		return "", "", err
	}
	url, err := s.ImportMnemonic(mnemonic)
	if err != nil {
		return "", "", err
	}
	return mnemonic, url, nil
}

// ClearAllKeys 登出/重置: 清主密码、Generation-B 存储和
// Generation-A 的数据库行。
func (s *KeyService) ClearAllKeys() error {
	if err := s.vault.ClearAllKeys(); err != nil {
		return err
	}
	if s.legacy != nil {
		if err := s.legacy.WipeAll(); err != nil {
			return err
		}
	}
	logger.Info("all key material cleared")
	return nil
}
