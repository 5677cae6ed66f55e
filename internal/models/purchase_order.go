package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// PurchaseOrderStatus: Satınalma siparişi durumu. Sadece CONFIRM durumundaki
// siparişlerin satırları bakiye projeksiyonuna giriş (tedarik) olarak sayılır.
type PurchaseOrderStatus string

const (
	PurchaseStatusInitial   PurchaseOrderStatus = "INITIAL"
	PurchaseStatusConfirm   PurchaseOrderStatus = "CONFIRM"
	PurchaseStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// ParsePurchaseStatus: Durum değerini büyük/küçük harf duyarsız çözümler
func ParsePurchaseStatus(s string) (PurchaseOrderStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(PurchaseStatusInitial):
		return PurchaseStatusInitial, nil
	case string(PurchaseStatusConfirm):
		return PurchaseStatusConfirm, nil
	case string(PurchaseStatusReceived):
		return PurchaseStatusReceived, nil
	case string(PurchaseStatusCancelled):
		return PurchaseStatusCancelled, nil
	default:
		return "", fmt.Errorf("geçersiz satınalma durumu: %q", s)
	}
}

// PurchaseOrder: Satınalma siparişi başlığı. Satırlar siparişle birlikte yaşar,
// sipariş silinince satırlar da silinir.
type PurchaseOrder struct {
	ID           uint                `gorm:"primaryKey"`
	OrderNo      string              `gorm:"size:50;not null;uniqueIndex"`
	SupplierName string              `gorm:"size:100"`
	Status       PurchaseOrderStatus `gorm:"size:20;not null;index"`
	Lines        []PurchaseOrderLine `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BeforeSave: Durum her yazımda kanonik forma çekilir
func (o *PurchaseOrder) BeforeSave(tx *gorm.DB) error {
	st, err := ParsePurchaseStatus(string(o.Status))
	if err != nil {
		return err
	}
	o.Status = st
	return nil
}

// PurchaseOrderLine: Sipariş satırı - hammadde, miktar ve beklenen varış haftası (ETA)
type PurchaseOrderLine struct {
	ID              uint `gorm:"primaryKey"`
	PurchaseOrderID uint `gorm:"not null;index"`
	MaterialID      uint `gorm:"not null;index"`
	Material        Material
	Quantity        decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	EtaYear         int             `gorm:"not null"`
	EtaWeek         int             `gorm:"not null"` // 1..53
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
