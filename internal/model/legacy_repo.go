package model

import (
	"encoding/hex"
	"errors"

	"acc-wallet-core/pkg/signer"

	"gorm.io/gorm"
)

// LegacyKeyRepo 把 gorm 行映射成 signer.LegacyStore。
type LegacyKeyRepo struct {
	DB *gorm.DB
}

var _ signer.LegacyStore = (*LegacyKeyRepo)(nil)

func NewLegacyKeyRepo(db *gorm.DB) *LegacyKeyRepo {
	return &LegacyKeyRepo{DB: db}
}

// FindByPageUrl 按密钥页 URL 取全部密钥行。页不存在返回 (nil, nil)。
func (r *LegacyKeyRepo) FindByPageUrl(url string) ([]*signer.LegacyRecord, error) {
	var page LegacyKeyPage
	err := r.DB.Preload("Keys").Where("url = ?", url).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]*signer.LegacyRecord, 0, len(page.Keys))
	for _, k := range page.Keys {
		pub, _ := hex.DecodeString(k.PublicKey)
		hash, _ := hex.DecodeString(k.PublicKeyHash)
		out = append(out, &signer.LegacyRecord{
			PublicKey:     pub,
			PublicKeyHash: hash,
			Ciphertext:    k.PrivateKeyCipher,
			IsDefault:     k.IsDefault,
		})
	}
	return out, nil
}

// WipeAll 清空 Generation-A 全部密钥数据 (登出/重置)。
func (r *LegacyKeyRepo) WipeAll() error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(&LegacyKey{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(&LegacyKeyPage{}).Error
	})
}
