package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BomLine: Reçete satırı - 1 birim ürün üretimi için tüketilen hammadde miktarı.
// (product_id, material_id) çifti tekil; aynı ürün için aynı hammadde iki kez tanımlanamaz.
type BomLine struct {
	ID             uint `gorm:"primaryKey"`
	ProductID      uint `gorm:"not null;uniqueIndex:idx_bom_product_material"`
	Product        Product
	MaterialID     uint `gorm:"not null;uniqueIndex:idx_bom_product_material;index"`
	Material       Material
	ConsumePerUnit decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
