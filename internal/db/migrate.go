package db

import (
	"stockroom/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Customer{},
		&models.InventoryItem{},
		&models.Sale{},
		&models.SaleLineItem{},
		&models.SyncState{},
		&models.SyncRun{},
	)
}
