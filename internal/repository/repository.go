package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stockroom/internal/models"
)

// Repository is the persistence surface the sync and query services depend
// on. Lookups by external id return (nil, nil) when nothing matches so
// callers can branch on create-vs-update without sentinel errors.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Customers
	FindCustomerByExternalID(ctx context.Context, integration models.Integration, externalID string) (*models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, item *models.Customer) error
	UpdateCustomer(ctx context.Context, item *models.Customer) error
	ListCustomers(ctx context.Context, params ListCustomersParams) ([]models.Customer, error)
	CountCustomers(ctx context.Context, params ListCustomersParams) (int64, error)

	// Inventory items
	FindItemByExternalID(ctx context.Context, integration models.Integration, externalID string) (*models.InventoryItem, error)
	GetItem(ctx context.Context, id string) (*models.InventoryItem, error)
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	UpdateItem(ctx context.Context, item *models.InventoryItem) error
	ListItems(ctx context.Context, params ListItemsParams) ([]models.InventoryItem, error)
	CountItems(ctx context.Context, params ListItemsParams) (int64, error)

	// Sales and their lines. Writes that touch lines go through the Tx
	// variants so the sale row and its replaced line set land atomically.
	FindSaleByExternalID(ctx context.Context, integration models.Integration, externalID string) (*models.Sale, error)
	GetSale(ctx context.Context, id string) (*models.Sale, error)
	CreateSaleTx(ctx context.Context, tx *gorm.DB, item *models.Sale) error
	UpdateSaleTx(ctx context.Context, tx *gorm.DB, item *models.Sale) error
	ReplaceSaleLinesTx(ctx context.Context, tx *gorm.DB, saleID string, lines []models.SaleLineItem) error
	ListSales(ctx context.Context, params ListSalesParams) ([]models.Sale, error)
	CountSales(ctx context.Context, params ListSalesParams) (int64, error)
	ListSaleLines(ctx context.Context, saleID string) ([]models.SaleLineItem, error)

	// Sync bookkeeping
	GetSyncState(ctx context.Context, scope string) (*models.SyncState, error)
	SaveSyncState(ctx context.Context, state *models.SyncState) error
	ListSyncStates(ctx context.Context) ([]models.SyncState, error)
	CreateSyncRun(ctx context.Context, run *models.SyncRun) error
	ListSyncRuns(ctx context.Context, params ListSyncRunsParams) ([]models.SyncRun, error)
}

type ListCustomersParams struct {
	Limit   int
	Offset  int
	Search  *string
	OrderBy string
	Asc     *bool
}

type ListItemsParams struct {
	Limit   int
	Offset  int
	Status  *string
	SKU     *string
	Search  *string
	OrderBy string
	Asc     *bool
}

type ListSalesParams struct {
	Limit          int
	Offset         int
	Kind           *string
	Status         *string
	CustomerID     *string
	NeedsAttention *bool
	Since          *time.Time
	OrderBy        string
	Asc            *bool
}

type ListSyncRunsParams struct {
	Limit  int
	Offset int
	Scope  *string
}
