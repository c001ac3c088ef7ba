package keyvault

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"sync"

	"acc-wallet-core/pkg/safe_random"

	"golang.org/x/crypto/scrypt"
)

var (
	// ErrDecryptionFailed 密码错误或密文损坏。注意和"密钥不存在"是
	// 两种不同的状态, 调用方不能混淆。
	ErrDecryptionFailed = errors.New("key decryption failed (wrong passphrase or corrupted data)")

	// ErrNoPassphrase 主密码未设置, 无法解密 Generation-A 的密钥。
	ErrNoPassphrase = errors.New("master passphrase is not set")
)

// Scrypt 参数, 与以太坊 Keystore V3 的标准参数一致。
const (
	scryptN     = 262144
	scryptR     = 8
	scryptP     = 1
	scryptDKLen = 32
	saltLen     = 32
)

// EncryptKey 用密码短语加密私钥: scrypt 派生密钥 + AES-256-GCM。
// 输出 salt || nonce || 密文。
//
// 历史版本用的是 SHA-256(passphrase) 循环异或的流"加密", 没有认证,
// 错误密码会解出垃圾字节继续往下签名。现在 GCM 认证失败直接报错,
// 接口 (字节进字节出, 按密码短语加密) 保持不变。
func EncryptKey(privateKey []byte, passphrase string) ([]byte, error) {
	salt, err := safe_random.GenerateRandomBytes(saltLen)
	if err != nil {
		return nil, err
	}

	derivedKey, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce, err := safe_random.GenerateRandomBytes(gcm.NonceSize())
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, saltLen+len(nonce)+len(privateKey)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, privateKey, nil), nil
}

// DecryptKey 解密 EncryptKey 的输出。密码错误或密文被改动一律返回
// ErrDecryptionFailed, 绝不会"成功"解出错误的密钥。
func DecryptKey(ciphertext []byte, passphrase string) ([]byte, error) {
	if len(ciphertext) < saltLen {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}
	salt, rest := ciphertext[:saltLen], ciphertext[saltLen:]

	derivedKey, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(rest) < gcm.NonceSize() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}
	nonce, ct := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		// GCM 认证失败, 密码错或数据损坏
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

// Vault 是进程级的密钥保管单例: 持有主密码状态和 Generation-B 安全存储。
// 并发的 Decrypt/Retrieve 可以安全交织; SetMasterPassphrase/ClearAllKeys
// 是少数显式的状态变更, 由写锁串行化。
type Vault struct {
	mu         sync.RWMutex
	passphrase string
	hasPass    bool
	secure     SecureStore
}

func NewVault(secure SecureStore) *Vault {
	return &Vault{secure: secure}
}

// SetMasterPassphrase 设置主密码 (登录/解锁时调用一次)。
func (v *Vault) SetMasterPassphrase(passphrase string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.passphrase = passphrase
	v.hasPass = true
}

func (v *Vault) HasMasterPassphrase() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.hasPass
}

// Encrypt 用当前主密码加密私钥 (Generation-A 写入路径)。
func (v *Vault) Encrypt(privateKey []byte) ([]byte, error) {
	v.mu.RLock()
	pass, ok := v.passphrase, v.hasPass
	v.mu.RUnlock()
	if !ok {
		return nil, ErrNoPassphrase
	}
	return EncryptKey(privateKey, pass)
}

// Decrypt 用当前主密码解密 Generation-A 密文。
func (v *Vault) Decrypt(ciphertext []byte) ([]byte, error) {
	v.mu.RLock()
	pass, ok := v.passphrase, v.hasPass
	v.mu.RUnlock()
	if !ok {
		return nil, ErrNoPassphrase
	}
	return DecryptKey(ciphertext, pass)
}

// Store Generation-B: 私钥直接进安全键值存储, 无密码环节。
func (v *Vault) Store(address string, privateKey []byte) error {
	return v.secure.Set(address, privateKey)
}

// Retrieve Generation-B 查找。不存在返回 (nil, nil), 不是错误。
func (v *Vault) Retrieve(address string) ([]byte, error) {
	return v.secure.Get(address)
}

func (v *Vault) Delete(address string) error {
	return v.secure.Delete(address)
}

// ClearAllKeys 登出/重置: 清空主密码和 Generation-B 存储。
// Generation-A 的数据库行由上层服务一并清除。
func (v *Vault) ClearAllKeys() error {
	v.mu.Lock()
	v.passphrase = ""
	v.hasPass = false
	v.mu.Unlock()
	return v.secure.Clear()
}
