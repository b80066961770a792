package shopify

import (
	"time"

	"github.com/shopspring/decimal"

	"stockroom/internal/paging"
)

// Product is one catalog product. Money arrives as JSON strings and decodes
// through decimal.
type Product struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	UpdatedAt   *time.Time       `json:"updatedAt"`
	Variants    []ProductVariant `json:"variants"`
}

type ProductVariant struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Barcode           string          `json:"barcode"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int64           `json:"inventoryQuantity"`
}

// PrimaryVariant returns the variant carrying the sellable unit, or nil.
func (p *Product) PrimaryVariant() *ProductVariant {
	if p == nil || len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

type Order struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Currency        string          `json:"currency"`
	FinancialStatus string          `json:"financialStatus"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ProcessedAt     *time.Time      `json:"processedAt"`
	UpdatedAt       *time.Time      `json:"updatedAt"`
	Customer        *OrderCustomer  `json:"customer"`
	LineItems       []OrderLineItem `json:"lineItems"`
}

type OrderCustomer struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

type OrderLineItem struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	SKU       string          `json:"sku"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// ProductInput is the payload for pushing a local item upstream.
type ProductInput struct {
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	Status            string          `json:"status,omitempty"`
	SKU               string          `json:"sku,omitempty"`
	Barcode           string          `json:"barcode,omitempty"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int64           `json:"inventoryQuantity"`
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

func (p pageInfo) toPaging() paging.PageInfo {
	return paging.PageInfo{HasNextPage: p.HasNextPage, EndCursor: p.EndCursor}
}
