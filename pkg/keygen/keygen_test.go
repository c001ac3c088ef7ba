package keygen

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/tyler-smith/go-bip39"
)

func TestNewMnemonic(t *testing.T) {
	mnemonic, err := NewMnemonic()
	if err != nil {
		t.Fatalf("NewMnemonic 失败: %v", err)
	}
	if len(strings.Fields(mnemonic)) != 12 {
		t.Errorf("应为 12 词助记词: %q", mnemonic)
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		t.Error("生成的助记词未通过 BIP-39 校验")
	}
}

func TestKeyFromMnemonicDeterministic(t *testing.T) {
	// BIP-39 标准测试助记词
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	k1, err := KeyFromMnemonic(mnemonic)
	if err != nil {
		t.Fatalf("KeyFromMnemonic 失败: %v", err)
	}
	k2, _ := KeyFromMnemonic(mnemonic)
	if !bytes.Equal(k1, k2) {
		t.Error("同一助记词应派生同一私钥")
	}

	_, err = KeyFromMnemonic("definitely not a valid mnemonic phrase at all")
	if !errors.Is(err, ErrInvalidMnemonic) {
		t.Fatalf("非法助记词应返回 ErrInvalidMnemonic, got %v", err)
	}
}

func TestLiteIdentityURL(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	priv, err := KeyFromMnemonic(mnemonic)
	if err != nil {
		t.Fatalf("KeyFromMnemonic 失败: %v", err)
	}
	pub := priv.Public().(ed25519.PublicKey)

	u := LiteIdentityURL(pub)
	// 20 字节 keyHash + 4 字节校验和, 全部小写 hex
	if len(u.Authority) != 48 {
		t.Errorf("lite 身份 authority 长度错误: %q", u.Authority)
	}
	if u.Authority != strings.ToLower(u.Authority) {
		t.Error("lite 身份应为小写 hex")
	}
	if _, err := hex.DecodeString(u.Authority); err != nil {
		t.Errorf("lite 身份不是合法 hex: %v", err)
	}

	// 校验和 = SHA-256(keyHash 的 hex 前 40 字符) 的末 4 字节
	keyStr := u.Authority[:40]
	checkSum := sha256.Sum256([]byte(keyStr))
	if u.Authority[40:] != hex.EncodeToString(checkSum[28:]) {
		t.Error("lite 身份校验和错误")
	}

	// 同一公钥派生结果确定
	if u.String() != LiteIdentityURL(pub).String() {
		t.Error("lite 身份派生应确定")
	}

	ta := LiteTokenAccountURL(pub)
	if ta.Authority != u.Authority || ta.Path != "/ACME" {
		t.Errorf("默认代币账户错误: %s", ta)
	}
}
