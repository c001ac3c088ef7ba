package keyvault

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("生成密钥失败: %v", err)
	}

	ct, err := EncryptKey(priv, "correct horse battery staple")
	if err != nil {
		t.Fatalf("EncryptKey 失败: %v", err)
	}
	if bytes.Contains(ct, priv) {
		t.Fatal("密文中不应出现明文私钥")
	}

	pt, err := DecryptKey(ct, "correct horse battery staple")
	if err != nil {
		t.Fatalf("DecryptKey 失败: %v", err)
	}
	if !bytes.Equal(pt, priv) {
		t.Error("解密结果与原文不一致")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	ct, err := EncryptKey([]byte("secret key bytes"), "right")
	if err != nil {
		t.Fatalf("EncryptKey 失败: %v", err)
	}

	// 错误密码必须报 ErrDecryptionFailed, 绝不能"成功"解出垃圾
	pt, err := DecryptKey(ct, "wrong")
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("错误密码应返回 ErrDecryptionFailed, got %v", err)
	}
	if pt != nil {
		t.Error("解密失败时不应返回任何明文")
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	ct, err := EncryptKey([]byte("secret key bytes"), "pass")
	if err != nil {
		t.Fatalf("EncryptKey 失败: %v", err)
	}

	// 改动任何一个密文字节, GCM 认证必须失败
	ct[len(ct)-1] ^= 0x01
	if _, err := DecryptKey(ct, "pass"); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("篡改密文应返回 ErrDecryptionFailed, got %v", err)
	}

	// 截断的密文同样拒绝
	if _, err := DecryptKey(ct[:10], "pass"); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("截断密文应返回 ErrDecryptionFailed, got %v", err)
	}
}

func TestVaultPassphraseLifecycle(t *testing.T) {
	v := NewVault(NewMemoryStore())

	if v.HasMasterPassphrase() {
		t.Error("新 Vault 不应有主密码")
	}
	if _, err := v.Decrypt([]byte("whatever")); !errors.Is(err, ErrNoPassphrase) {
		t.Fatalf("无主密码时 Decrypt 应返回 ErrNoPassphrase, got %v", err)
	}
	if _, err := v.Encrypt([]byte("key")); !errors.Is(err, ErrNoPassphrase) {
		t.Fatalf("无主密码时 Encrypt 应返回 ErrNoPassphrase, got %v", err)
	}

	v.SetMasterPassphrase("pw")
	if !v.HasMasterPassphrase() {
		t.Error("设置后 HasMasterPassphrase 应为 true")
	}

	ct, err := v.Encrypt([]byte("key material"))
	if err != nil {
		t.Fatalf("Encrypt 失败: %v", err)
	}
	pt, err := v.Decrypt(ct)
	if err != nil {
		t.Fatalf("Decrypt 失败: %v", err)
	}
	if string(pt) != "key material" {
		t.Error("Vault 加解密往返失败")
	}
}

func TestVaultSecureStore(t *testing.T) {
	v := NewVault(NewMemoryStore())

	// 不存在是 (nil, nil), 不是错误
	got, err := v.Retrieve("acc://nobody.acme")
	if err != nil || got != nil {
		t.Fatalf("不存在的键应返回 (nil, nil), got (%v, %v)", got, err)
	}

	if err := v.Store("acc://alice.acme", []byte("priv")); err != nil {
		t.Fatalf("Store 失败: %v", err)
	}
	got, err = v.Retrieve("acc://alice.acme")
	if err != nil || string(got) != "priv" {
		t.Fatalf("Retrieve 结果错误: (%s, %v)", got, err)
	}

	if err := v.Delete("acc://alice.acme"); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if got, _ := v.Retrieve("acc://alice.acme"); got != nil {
		t.Error("删除后仍能取到键")
	}
}

func TestVaultClearAllKeys(t *testing.T) {
	v := NewVault(NewMemoryStore())
	v.SetMasterPassphrase("pw")
	_ = v.Store("acc://alice.acme", []byte("priv"))

	if err := v.ClearAllKeys(); err != nil {
		t.Fatalf("ClearAllKeys 失败: %v", err)
	}
	if v.HasMasterPassphrase() {
		t.Error("清空后主密码应被重置")
	}
	if got, _ := v.Retrieve("acc://alice.acme"); got != nil {
		t.Error("清空后安全存储里不应有键")
	}
}

func TestBoltStore(t *testing.T) {
	path := t.TempDir() + "/secure.db"
	s, err := OpenBoltStore(path)
	if err != nil {
		t.Fatalf("OpenBoltStore 失败: %v", err)
	}
	defer s.Close()

	if got, err := s.Get("missing"); err != nil || got != nil {
		t.Fatalf("不存在的键应返回 (nil, nil), got (%v, %v)", got, err)
	}
	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set 失败: %v", err)
	}
	if got, _ := s.Get("k"); string(got) != "v" {
		t.Errorf("Get = %s", got)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear 失败: %v", err)
	}
	if got, _ := s.Get("k"); got != nil {
		t.Error("Clear 后仍能取到键")
	}
}
