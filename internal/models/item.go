package models

import (
	"fmt"
	"strings"
	"time"
)

// ItemType: Bakiye projeksiyonunda ürün ('P') ve hammadde ('M') ayrımı
type ItemType string

const (
	ItemTypeProduct  ItemType = "P"
	ItemTypeMaterial ItemType = "M"
)

// ParseItemType: Gelen item_type değerini doğrular (büyük/küçük harf duyarsız)
func ParseItemType(s string) (ItemType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "P":
		return ItemTypeProduct, nil
	case "M":
		return ItemTypeMaterial, nil
	default:
		return "", fmt.Errorf("geçersiz item_type: %q (P veya M olmalı)", s)
	}
}

type Product struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"size:50;not null;uniqueIndex"` // Ürün kodu (ör: P589)
	Name      string `gorm:"size:100;not null"`
	ImagePath string `gorm:"size:255"` // Opsiyonel ürün görseli
	BomLines  []BomLine `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Material struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"size:50;not null;uniqueIndex"` // Hammadde kodu (ör: NVL3)
	Name      string `gorm:"size:100;not null"`
	ImagePath string `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
