package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesPlan: Haftalık sevkiyat planı satırı. (product_id, year, week) tekil;
// aynı haftaya ikinci bir kayıt yazılırsa upsert ile mevcut satır güncellenir.
type SalesPlan struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_sales_plan_product_week"`
	Product   Product
	Year      int `gorm:"not null;uniqueIndex:idx_sales_plan_product_week"`
	Week      int `gorm:"not null;uniqueIndex:idx_sales_plan_product_week"`
	Quantity  decimal.Decimal `gorm:"type:numeric(18,4);not null"` // Sevk miktarı (çıkış)
	CreatedAt time.Time
	UpdatedAt time.Time
}
