package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// ProductionOrderStatus: Üretim emri durumu. Kanonik değerler büyük harfli tutulur,
// normalizasyon kayıt sınırında (ParseProductionStatus + BeforeSave) bir kez yapılır;
// iç mantık bir daha büyük/küçük harf dönüşümü yapmaz.
type ProductionOrderStatus string

const (
	ProductionStatusInitial  ProductionOrderStatus = "INITIAL" // Taslak, projeksiyona girmez
	ProductionStatusActive   ProductionOrderStatus = "ACTIVE"
	ProductionStatusComplete ProductionOrderStatus = "COMPLETE"
)

// ProjectableProductionStatuses: Projeksiyonda giriş (üretim) olarak sayılan durumlar
var ProjectableProductionStatuses = []string{
	string(ProductionStatusActive),
	string(ProductionStatusComplete),
}

// ParseProductionStatus: Durum değerini büyük/küçük harf duyarsız çözümler
func ParseProductionStatus(s string) (ProductionOrderStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(ProductionStatusInitial):
		return ProductionStatusInitial, nil
	case string(ProductionStatusActive):
		return ProductionStatusActive, nil
	case string(ProductionStatusComplete):
		return ProductionStatusComplete, nil
	default:
		return "", fmt.Errorf("geçersiz üretim emri durumu: %q", s)
	}
}

// ProductionOrder: Haftalık üretim emri. Sadece ACTIVE/COMPLETE emirler bakiyeye girer.
type ProductionOrder struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"not null;index"`
	Product   Product
	Year      int `gorm:"not null;index:idx_production_week"`
	Week      int `gorm:"not null;index:idx_production_week"`
	Quantity  decimal.Decimal       `gorm:"type:numeric(18,4);not null"`
	Status    ProductionOrderStatus `gorm:"size:20;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeSave: Durum her yazımda kanonik (büyük harf) forma çekilir
func (o *ProductionOrder) BeforeSave(tx *gorm.DB) error {
	st, err := ParseProductionStatus(string(o.Status))
	if err != nil {
		return err
	}
	o.Status = st
	return nil
}
