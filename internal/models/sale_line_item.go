package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineItem has no identity outside its parent sale; the reconciler
// deletes and recreates the whole set whenever the parent is updated.
type SaleLineItem struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	SaleID   string `gorm:"type:varchar(40);not null;index"`
	Position int    `gorm:"not null;default:0"`

	ItemID         *string `gorm:"type:varchar(40);index"`
	ExternalItemID *string `gorm:"type:varchar(100)"`
	Description    *string `gorm:"type:text"`

	Quantity  decimal.Decimal `gorm:"type:numeric(20,6);not null;default:0"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	Amount    decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (SaleLineItem) TableName() string {
	return "sale_line_items"
}
