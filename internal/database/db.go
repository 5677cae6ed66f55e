package database

import (
	"fmt"

	"mps-backend/internal/config"
	"mps-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect: Postgres'e bağlanır ve şemayı migrate eder. Bağlantı paket globali olarak
// tutulmaz; çağıran açar, handler'lara enjekte eder ve kapanışta Close çağırır.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Material{},
		&models.BomLine{},
		&models.OpeningBalance{},
		&models.SalesPlan{},
		&models.ProductionOrder{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderLine{},
		&models.AuditLog{},
	)
	if err != nil {
		return nil, fmt.Errorf("AutoMigrate hatası: %w", err)
	}

	return db, nil
}

// Close: Altta yatan sql.DB havuzunu kapatır
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
