package models

import "time"

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionImport AuditAction = "import"
)

// AuditLog: Kim, neyi, ne zaman değiştirdi. Before/After alanları jsonb olarak tutulur.
type AuditLog struct {
	ID          uint        `gorm:"primaryKey"`
	UserID      uint        `gorm:"index;not null"`
	UserName    string      `gorm:"size:100;not null"`
	EntityType  string      `gorm:"size:50;index;not null"` // "product", "sales_plan", "opening_balance"...
	EntityID    uint        `gorm:"index"`
	Action      AuditAction `gorm:"size:20;not null"`
	Description string      `gorm:"size:500"`
	BeforeData  string      `gorm:"type:jsonb;default:'null'"`
	AfterData   string      `gorm:"type:jsonb;default:'null'"`
	CreatedAt   time.Time   `gorm:"index"`
}
