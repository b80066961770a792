package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	SaleKindInvoice = "invoice"
	SaleKindOrder   = "order"

	SaleStatusOpen      = "open"
	SaleStatusPaid      = "paid"
	SaleStatusOverdue   = "overdue"
	SaleStatusCancelled = "cancelled"

	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Sale is a single revenue document: an accounting invoice or a commerce
// order. Line items hang off it and are replaced as a set on every update.
type Sale struct {
	ID         string  `gorm:"type:varchar(40);primaryKey"`
	Kind       string  `gorm:"type:varchar(20);not null;index"`
	Number     *string `gorm:"type:varchar(100);index"`
	CustomerID *string `gorm:"type:varchar(40);index"`

	Status   string          `gorm:"type:varchar(20);not null;default:'open';index"`
	Total    decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	Balance  decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`
	Currency *string         `gorm:"type:varchar(10)"`

	IssuedAt *time.Time `gorm:"type:timestamptz;index"`
	DueAt    *time.Time `gorm:"type:timestamptz"`

	NeedsAttention bool   `gorm:"not null;default:false;index"`
	Priority       string `gorm:"type:varchar(10);not null;default:'normal'"`

	ShopifyID          *string    `gorm:"type:varchar(100);uniqueIndex"`
	QuickBooksID       *string    `gorm:"type:varchar(100);uniqueIndex"`
	ShopifySyncedAt    *time.Time `gorm:"type:timestamptz"`
	QuickBooksSyncedAt *time.Time `gorm:"type:timestamptz"`
	ExternalUpdatedAt  *time.Time `gorm:"type:timestamptz"`

	RawJSON datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Sale) TableName() string {
	return "sales"
}
