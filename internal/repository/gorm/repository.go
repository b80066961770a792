package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stockroom/internal/models"
	"stockroom/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- Customers --------------------------------------------------------------

func (s *Store) FindCustomerByExternalID(ctx context.Context, integration models.Integration, externalID string) (*models.Customer, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	column := externalColumn(integration)
	externalID = strings.TrimSpace(externalID)
	if column == "" || externalID == "" {
		return nil, nil
	}
	var item models.Customer
	err := s.db.WithContext(ctx).First(&item, column+" = ?", externalID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Customer
	err := s.db.WithContext(ctx).First(&item, "id = ?", strings.TrimSpace(id)).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateCustomer(ctx context.Context, item *models.Customer) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateCustomer(ctx context.Context, item *models.Customer) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) ListCustomers(ctx context.Context, params repository.ListCustomersParams) ([]models.Customer, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyCustomerFilters(s.db.WithContext(ctx).Model(&models.Customer{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "updated_at")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Customer
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountCustomers(ctx context.Context, params repository.ListCustomersParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applyCustomerFilters(s.db.WithContext(ctx).Model(&models.Customer{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func applyCustomerFilters(query *gorm.DB, params repository.ListCustomersParams) *gorm.DB {
	if params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		needle := "%" + strings.TrimSpace(*params.Search) + "%"
		query = query.Where("name ILIKE ? OR company_name ILIKE ? OR email ILIKE ?", needle, needle, needle)
	}
	return query
}

// --- Inventory items --------------------------------------------------------

func (s *Store) FindItemByExternalID(ctx context.Context, integration models.Integration, externalID string) (*models.InventoryItem, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	column := externalColumn(integration)
	externalID = strings.TrimSpace(externalID)
	if column == "" || externalID == "" {
		return nil, nil
	}
	var item models.InventoryItem
	err := s.db.WithContext(ctx).First(&item, column+" = ?", externalID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.InventoryItem
	err := s.db.WithContext(ctx).First(&item, "id = ?", strings.TrimSpace(id)).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateItem(ctx context.Context, item *models.InventoryItem) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) ListItems(ctx context.Context, params repository.ListItemsParams) ([]models.InventoryItem, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyItemFilters(s.db.WithContext(ctx).Model(&models.InventoryItem{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "updated_at")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.InventoryItem
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountItems(ctx context.Context, params repository.ListItemsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applyItemFilters(s.db.WithContext(ctx).Model(&models.InventoryItem{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func applyItemFilters(query *gorm.DB, params repository.ListItemsParams) *gorm.DB {
	if params.Status != nil && *params.Status != "" {
		query = query.Where("status = ?", *params.Status)
	}
	if params.SKU != nil && strings.TrimSpace(*params.SKU) != "" {
		query = query.Where("sku = ?", strings.TrimSpace(*params.SKU))
	}
	if params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		needle := "%" + strings.TrimSpace(*params.Search) + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", needle, needle)
	}
	return query
}

// --- Sales ------------------------------------------------------------------

func (s *Store) FindSaleByExternalID(ctx context.Context, integration models.Integration, externalID string) (*models.Sale, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	column := externalColumn(integration)
	externalID = strings.TrimSpace(externalID)
	if column == "" || externalID == "" {
		return nil, nil
	}
	var item models.Sale
	err := s.db.WithContext(ctx).First(&item, column+" = ?", externalID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetSale(ctx context.Context, id string) (*models.Sale, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Sale
	err := s.db.WithContext(ctx).First(&item, "id = ?", strings.TrimSpace(id)).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CreateSaleTx(ctx context.Context, tx *gorm.DB, item *models.Sale) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdateSaleTx(ctx context.Context, tx *gorm.DB, item *models.Sale) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Save(item).Error
}

// ReplaceSaleLinesTx swaps the sale's line set wholesale. Lines carry no
// identity of their own, so delete-then-insert keeps the set exactly in step
// with the source document.
func (s *Store) ReplaceSaleLinesTx(ctx context.Context, tx *gorm.DB, saleID string, lines []models.SaleLineItem) error {
	saleID = strings.TrimSpace(saleID)
	if tx == nil || saleID == "" {
		return nil
	}
	if err := tx.WithContext(ctx).Where("sale_id = ?", saleID).Delete(&models.SaleLineItem{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = 0
		lines[i].SaleID = saleID
	}
	return tx.WithContext(ctx).CreateInBatches(lines, 200).Error
}

func (s *Store) ListSales(ctx context.Context, params repository.ListSalesParams) ([]models.Sale, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applySaleFilters(s.db.WithContext(ctx).Model(&models.Sale{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "issued_at")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Sale
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSales(ctx context.Context, params repository.ListSalesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applySaleFilters(s.db.WithContext(ctx).Model(&models.Sale{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListSaleLines(ctx context.Context, saleID string) ([]models.SaleLineItem, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return nil, nil
	}
	var lines []models.SaleLineItem
	if err := s.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("position asc").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func applySaleFilters(query *gorm.DB, params repository.ListSalesParams) *gorm.DB {
	if params.Kind != nil && *params.Kind != "" {
		query = query.Where("kind = ?", *params.Kind)
	}
	if params.Status != nil && *params.Status != "" {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil && *params.CustomerID != "" {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.NeedsAttention != nil {
		query = query.Where("needs_attention = ?", *params.NeedsAttention)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("issued_at >= ?", *params.Since)
	}
	return query
}

// --- Sync bookkeeping -------------------------------------------------------

func (s *Store) GetSyncState(ctx context.Context, scope string) (*models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var state models.SyncState
	err := s.db.WithContext(ctx).First(&state, "scope = ?", scope).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) SaveSyncState(ctx context.Context, state *models.SyncState) error {
	if s == nil || s.db == nil || state == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"integration",
			"last_attempt_at",
			"last_success_at",
			"last_error",
			"stats_json",
			"updated_at",
		}),
	}).Create(state).Error
}

func (s *Store) ListSyncStates(ctx context.Context) ([]models.SyncState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var states []models.SyncState
	if err := s.db.WithContext(ctx).Order("scope asc").Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

func (s *Store) CreateSyncRun(ctx context.Context, run *models.SyncRun) error {
	if s == nil || s.db == nil || run == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *Store) ListSyncRuns(ctx context.Context, params repository.ListSyncRunsParams) ([]models.SyncRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.SyncRun{})
	if params.Scope != nil && *params.Scope != "" {
		query = query.Where("scope = ?", *params.Scope)
	}
	limit := normalizeLimit(params.Limit, 50)
	offset := normalizeOffset(params.Offset)
	var runs []models.SyncRun
	if err := query.Order("started_at desc").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// --- helpers ----------------------------------------------------------------

func externalColumn(integration models.Integration) string {
	switch integration {
	case models.IntegrationShopify:
		return "shopify_id"
	case models.IntegrationQuickBooks:
		return "quickbooks_id"
	}
	return ""
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
