package signer

import (
	"encoding/hex"
	"fmt"

	"acc-wallet-core/pkg/keyvault"
	"acc-wallet-core/pkg/protocol"
)

// LegacyRecord Generation-A 关系库里的一行密钥。
type LegacyRecord struct {
	PublicKey     []byte
	PublicKeyHash []byte
	Ciphertext    []byte
	IsDefault     bool
}

// LegacyStore Generation-A 的行查询抽象, gorm 实现在 internal/model。
type LegacyStore interface {
	// FindByPageUrl 按密钥页 URL 取该页全部密钥行; 页不存在返回 (nil, nil)。
	FindByPageUrl(url string) ([]*LegacyRecord, error)
	WipeAll() error
}

// GenerationA 旧版存储策略: 数据库密文 + 主密码解密。
type GenerationA struct {
	Store LegacyStore
	Vault *keyvault.Vault
}

func (g *GenerationA) Lookup(signerUrl *protocol.URL) (*KeyMaterial, error) {
	rows, err := g.Store.FindByPageUrl(signerUrl.String())
	if err != nil {
		return nil, fmt.Errorf("legacy key store: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// 默认密钥优先, 没有标记就取第一行
	row := rows[0]
	for _, r := range rows {
		if r.IsDefault {
			row = r
			break
		}
	}

	// 密文在而密码缺失/不对是错误 (ErrNoPassphrase/ErrDecryptionFailed),
	// 不能当成"密钥不存在"落到下一代
	priv, err := g.Vault.Decrypt(row.Ciphertext)
	if err != nil {
		return nil, err
	}

	return &KeyMaterial{
		PublicKey:     append([]byte{}, row.PublicKey...),
		PrivateKey:    priv,
		PublicKeyHash: append([]byte{}, row.PublicKeyHash...),
		Owner:         signerUrl.String(),
		IsDefault:     row.IsDefault,
	}, nil
}

// GenerationB 新版存储策略: OS 级安全键值存储直查, 无密码环节。
type GenerationB struct {
	Vault *keyvault.Vault
}

func (g *GenerationB) Lookup(signerUrl *protocol.URL) (*KeyMaterial, error) {
	raw, err := g.Vault.Retrieve(signerUrl.String())
	if err != nil {
		return nil, fmt.Errorf("secure store: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	// 存储格式: hex(私钥) 或裸字节, 历史上两种写法都有
	priv := raw
	if decoded, err := hex.DecodeString(string(raw)); err == nil && (len(decoded) == 32 || len(decoded) == 64) {
		priv = decoded
	}

	return &KeyMaterial{
		PrivateKey: priv,
		Owner:      signerUrl.String(),
	}, nil
}
