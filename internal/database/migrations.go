package database

import (
	"inventory-backend/internal/models"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// Migrate applies pending schema migrations.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250601_create_tenancy_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Company{}, &models.User{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.User{}, &models.Company{})
			},
		},
		{
			ID: "20250601_create_catalog_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Vendor{}, &models.Brand{}, &models.Category{}, &models.SKU{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.SKU{}, &models.Category{}, &models.Brand{}, &models.Vendor{})
			},
		},
		{
			ID: "20250602_create_incoming_inventory_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.IncomingInventory{},
					&models.IncomingInventoryItem{},
					&models.RejectedItemReport{},
					&models.PriceHistory{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					&models.PriceHistory{},
					&models.RejectedItemReport{},
					&models.IncomingInventoryItem{},
					&models.IncomingInventory{},
				)
			},
		},
		{
			ID: "20250610_create_outgoing_inventory_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.OutgoingInventory{}, &models.OutgoingInventoryItem{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.OutgoingInventoryItem{}, &models.OutgoingInventory{})
			},
		},
		{
			ID: "20250615_create_audit_logs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.AuditLog{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.AuditLog{})
			},
		},
	})
	return m.Migrate()
}
