package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Customer struct {
	ID          string  `gorm:"type:varchar(40);primaryKey"`
	Name        string  `gorm:"type:varchar(255);not null;index"`
	CompanyName *string `gorm:"type:varchar(255)"`
	Email       *string `gorm:"type:varchar(255);index"`
	Phone       *string `gorm:"type:varchar(64)"`
	Notes       *string `gorm:"type:text"`

	BillingStreet     *string `gorm:"type:varchar(255)"`
	BillingCity       *string `gorm:"type:varchar(128)"`
	BillingState      *string `gorm:"type:varchar(128)"`
	BillingPostalCode *string `gorm:"type:varchar(32)"`
	BillingCountry    *string `gorm:"type:varchar(128)"`

	ShippingStreet     *string `gorm:"type:varchar(255)"`
	ShippingCity       *string `gorm:"type:varchar(128)"`
	ShippingState      *string `gorm:"type:varchar(128)"`
	ShippingPostalCode *string `gorm:"type:varchar(32)"`
	ShippingCountry    *string `gorm:"type:varchar(128)"`

	Balance decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0"`

	ShopifyID          *string    `gorm:"type:varchar(100);uniqueIndex"`
	QuickBooksID       *string    `gorm:"type:varchar(100);uniqueIndex"`
	ShopifySyncedAt    *time.Time `gorm:"type:timestamptz"`
	QuickBooksSyncedAt *time.Time `gorm:"type:timestamptz"`
	ExternalUpdatedAt  *time.Time `gorm:"type:timestamptz"`

	RawJSON datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Customer) TableName() string {
	return "customers"
}

// ExternalID returns the identifier this customer holds for the given
// integration, or the empty string.
func (c *Customer) ExternalID(integration Integration) string {
	switch integration {
	case IntegrationShopify:
		if c.ShopifyID != nil {
			return *c.ShopifyID
		}
	case IntegrationQuickBooks:
		if c.QuickBooksID != nil {
			return *c.QuickBooksID
		}
	}
	return ""
}
