package model

import (
	"time"

	"gorm.io/gorm"
)

// Generation-A 旧版密钥存储: 私钥密文落在关系库的密钥页/密钥行里,
// 用主密码派生的密钥解密。这是迁移遗留物, 新密钥走 Generation-B,
// 但存量数据必须继续可读。

// LegacyKeyPage 旧版密钥页记录。
type LegacyKeyPage struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Url        string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"url"`
	KeyBookUrl string         `gorm:"type:varchar(255)" json:"key_book_url"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Keys []LegacyKey `gorm:"foreignKey:KeyPageID" json:"keys,omitempty"`
}

// LegacyKey 旧版密钥行。PrivateKeyCipher 是 keyvault 加密后的私钥密文。
type LegacyKey struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	KeyPageID        uint64    `gorm:"not null;index" json:"key_page_id"`
	Name             string    `gorm:"type:varchar(255)" json:"name"`
	PublicKey        string    `gorm:"type:varchar(128)" json:"public_key"`      // hex
	PublicKeyHash    string    `gorm:"type:varchar(128)" json:"public_key_hash"` // hex
	PrivateKeyCipher []byte    `gorm:"type:bytea" json:"-"`                      // 永不外发
	IsDefault        bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (LegacyKeyPage) TableName() string {
	return "legacy_key_pages"
}

func (LegacyKey) TableName() string {
	return "legacy_keys"
}

// AutoMigrate 建表。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&LegacyKeyPage{}, &LegacyKey{})
}
