package keygen

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"acc-wallet-core/pkg/protocol"

	"github.com/tyler-smith/go-bip39"
)

// 助记词导入/生成与 lite 身份派生。密码学原语 (Ed25519, SHA-256)
// 直接用标准库, 这里只负责钱包侧的组合逻辑。

var ErrInvalidMnemonic = errors.New("invalid bip39 mnemonic")

// NewMnemonic 生成 12 词助记词。
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// KeyFromMnemonic 由助记词派生 Ed25519 密钥: BIP-39 种子的前 32 字节
// 作为 Ed25519 seed。与移动端钱包的派生方式一致。
func KeyFromMnemonic(mnemonic string) (ed25519.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, "")
	return ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize]), nil
}

// LiteIdentityURL 从公钥派生 lite 身份 URL:
// 公钥 SHA-256 的前 20 字节 hex 小写, 再拼上 4 字节校验和。
func LiteIdentityURL(pub ed25519.PublicKey) *protocol.URL {
	keyHash := sha256.Sum256(pub)
	keyStr := hex.EncodeToString(keyHash[:20])
	checkSum := sha256.Sum256([]byte(keyStr))
	return &protocol.URL{Authority: keyStr + hex.EncodeToString(checkSum[28:])}
}

// LiteTokenAccountURL lite 身份下默认的 ACME 代币账户。
func LiteTokenAccountURL(pub ed25519.PublicKey) *protocol.URL {
	return LiteIdentityURL(pub).JoinPath("/ACME")
}
