package signer

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"acc-wallet-core/pkg/ledger"
	"acc-wallet-core/pkg/protocol"
)

// ErrSignerNotFound 签名方 URL 在账本上不是有效的密钥页/lite 身份。
var ErrSignerNotFound = errors.New("signer not found on ledger")

// KeyMaterial 一次签名用到的本地密钥材料。PrivateKey 是明文,
// 只在单次签名调用期间存活, 用完由调用方清零。
type KeyMaterial struct {
	PublicKey     []byte
	PrivateKey    []byte
	PublicKeyHash []byte
	Owner         string
	IsDefault     bool
}

// Zero 清掉私钥字节。
func (k *KeyMaterial) Zero() {
	for i := range k.PrivateKey {
		k.PrivateKey[i] = 0
	}
}

// KeySource 一代密钥存储的查找策略。不存在返回 (nil, nil);
// 存在但解不开 (密码缺失/密文损坏) 返回错误。
type KeySource interface {
	Lookup(signerUrl *protocol.URL) (*KeyMaterial, error)
}

// Resolver 解析签名方: 版本号走账本, 密钥材料按固定优先级
// 依次尝试各代存储 (职责链)。
type Resolver struct {
	ledger  ledger.Querier
	sources []KeySource
}

func NewResolver(lc ledger.Querier, sources ...KeySource) *Resolver {
	return &Resolver{ledger: lc, sources: sources}
}

// Resolve 查询签名方的当前防重放版本和公钥, 每次调用都重新查询。
// 版本是账本侧密钥页拥有的计数器, 用过期值签名会被协议层拒绝,
// 所以这里绝不缓存。
func (r *Resolver) Resolve(ctx context.Context, signerUrl *protocol.URL) (*protocol.SignerInfo, error) {
	res, err := r.ledger.Query(ctx, signerUrl.String())
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSignerNotFound, signerUrl)
		}
		return nil, err
	}

	info := &protocol.SignerInfo{
		Url:     signerUrl,
		Type:    protocol.SignatureTypeED25519,
		Version: 1, // lite 身份没有版本计数器, 按协议恒为 1
	}

	switch res.Type {
	case "keyPage":
		if v, ok := res.Data["version"].(float64); ok {
			info.Version = uint64(v)
		}
	case "liteIdentity", "liteTokenAccount":
		// 版本固定 1
	default:
		return nil, fmt.Errorf("%w: %s is a %s, not a signer", ErrSignerNotFound, signerUrl, res.Type)
	}

	if s, ok := res.Data["publicKey"].(string); ok && s != "" {
		pk, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("ledger returned invalid public key: %w", err)
		}
		info.PublicKey = pk
	}
	return info, nil
}

// ResolveKeyMaterial 按注册顺序尝试各代存储。两代都没有返回 (nil, nil) —
// "本地没有这把钥匙"是合法状态, 不是错误, 上层走无签名方的 UX 分支。
func (r *Resolver) ResolveKeyMaterial(signerUrl *protocol.URL) (*KeyMaterial, error) {
	for _, src := range r.sources {
		km, err := src.Lookup(signerUrl)
		if err != nil {
			return nil, err
		}
		if km != nil {
			return km, nil
		}
	}
	return nil, nil
}

// NormalizeKey 把 32 字节种子或 64 字节私钥统一成 ed25519.PrivateKey,
// 并补全公钥/公钥哈希。
func NormalizeKey(km *KeyMaterial) (ed25519.PrivateKey, error) {
	var priv ed25519.PrivateKey
	switch len(km.PrivateKey) {
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(km.PrivateKey)
	case ed25519.PrivateKeySize:
		priv = ed25519.PrivateKey(km.PrivateKey)
	default:
		return nil, fmt.Errorf("unexpected private key length %d", len(km.PrivateKey))
	}

	if len(km.PublicKey) == 0 {
		km.PublicKey = append([]byte{}, priv.Public().(ed25519.PublicKey)...)
	}
	if len(km.PublicKeyHash) == 0 {
		h := sha256.Sum256(km.PublicKey)
		km.PublicKeyHash = h[:]
	}
	return priv, nil
}
