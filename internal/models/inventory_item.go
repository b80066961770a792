package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	ItemStatusActive   = "active"
	ItemStatusArchived = "archived"
	ItemStatusDraft    = "draft"
)

type InventoryItem struct {
	ID          string  `gorm:"type:varchar(40);primaryKey"`
	SKU         *string `gorm:"type:varchar(100);index"`
	Name        string  `gorm:"type:varchar(255);not null;index"`
	Description *string `gorm:"type:text"`
	Barcode     *string `gorm:"type:varchar(100);index"`

	Price decimal.Decimal  `gorm:"type:numeric(20,4);not null;default:0"`
	Cost  *decimal.Decimal `gorm:"type:numeric(20,4)"`

	QuantityOnHand int64  `gorm:"not null;default:0"`
	Status         string `gorm:"type:varchar(20);not null;default:'active';index"`

	ShopifyID          *string    `gorm:"type:varchar(100);uniqueIndex"`
	QuickBooksID       *string    `gorm:"type:varchar(100);uniqueIndex"`
	ShopifySyncedAt    *time.Time `gorm:"type:timestamptz"`
	QuickBooksSyncedAt *time.Time `gorm:"type:timestamptz"`
	ExternalUpdatedAt  *time.Time `gorm:"type:timestamptz"`

	RawJSON datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
