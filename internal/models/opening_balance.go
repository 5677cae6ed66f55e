package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpeningBalance: Dönem başı bakiyesi. Her (item_type, item_id) için EN FAZLA bir kayıt
// olabilir; tekil index bunu veri katmanında garanti eder, yazma her zaman upsert ile yapılır.
// StartYear/StartWeek çapa haftasıdır: çapadan önceki tüm haftaların bakiyesi tanım gereği 0'dır.
type OpeningBalance struct {
	ID        uint     `gorm:"primaryKey"`
	ItemType  ItemType `gorm:"size:1;not null;uniqueIndex:idx_opening_item"`
	ItemID    uint     `gorm:"not null;uniqueIndex:idx_opening_item"`
	StartYear int      `gorm:"not null"`
	StartWeek int      `gorm:"not null"` // 1..53, ISO takvim doğrulaması yapılmaz
	Quantity  decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
