package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"stockroom/internal/client/quickbooks"
	"stockroom/internal/client/shopify"
	"stockroom/internal/models"
	"stockroom/internal/paging"
	"stockroom/internal/repository"
)

// stubStore is an in-memory Repository. Tx methods write to the same maps;
// InTx just invokes the closure like the real store would.
type stubStore struct {
	mu        sync.Mutex
	customers []*models.Customer
	items     []*models.InventoryItem
	sales     []*models.Sale
	lines     map[string][]models.SaleLineItem
	states    map[string]*models.SyncState
	runs      []*models.SyncRun

	createCustomerErr func(*models.Customer) error
	createSaleErr     func(*models.Sale) error
}

func newStubStore() *stubStore {
	return &stubStore{
		lines:  map[string][]models.SaleLineItem{},
		states: map[string]*models.SyncState{},
	}
}

func (s *stubStore) InTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func matchExternal(integration models.Integration, shopifyID, quickbooksID *string, externalID string) bool {
	externalID = strings.TrimSpace(externalID)
	switch integration {
	case models.IntegrationShopify:
		return shopifyID != nil && *shopifyID == externalID
	case models.IntegrationQuickBooks:
		return quickbooksID != nil && *quickbooksID == externalID
	}
	return false
}

func (s *stubStore) FindCustomerByExternalID(_ context.Context, integration models.Integration, externalID string) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if matchExternal(integration, c.ShopifyID, c.QuickBooksID, externalID) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubStore) GetCustomer(_ context.Context, id string) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubStore) CreateCustomer(_ context.Context, item *models.Customer) error {
	if s.createCustomerErr != nil {
		if err := s.createCustomerErr(item); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	s.customers = append(s.customers, &cp)
	return nil
}

func (s *stubStore) UpdateCustomer(_ context.Context, item *models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.customers {
		if c.ID == item.ID {
			cp := *item
			s.customers[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubStore) ListCustomers(_ context.Context, _ repository.ListCustomersParams) ([]models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubStore) CountCustomers(_ context.Context, _ repository.ListCustomersParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.customers)), nil
}

func (s *stubStore) FindItemByExternalID(_ context.Context, integration models.Integration, externalID string) (*models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if matchExternal(integration, it.ShopifyID, it.QuickBooksID, externalID) {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubStore) GetItem(_ context.Context, id string) (*models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubStore) CreateItem(_ context.Context, item *models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	s.items = append(s.items, &cp)
	return nil
}

func (s *stubStore) UpdateItem(_ context.Context, item *models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == item.ID {
			cp := *item
			s.items[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubStore) ListItems(_ context.Context, _ repository.ListItemsParams) ([]models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InventoryItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, *it)
	}
	return out, nil
}

func (s *stubStore) CountItems(_ context.Context, _ repository.ListItemsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *stubStore) FindSaleByExternalID(_ context.Context, integration models.Integration, externalID string) (*models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sale := range s.sales {
		if matchExternal(integration, sale.ShopifyID, sale.QuickBooksID, externalID) {
			cp := *sale
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubStore) GetSale(_ context.Context, id string) (*models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sale := range s.sales {
		if sale.ID == id {
			cp := *sale
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubStore) CreateSaleTx(_ context.Context, _ *gorm.DB, item *models.Sale) error {
	if s.createSaleErr != nil {
		if err := s.createSaleErr(item); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	s.sales = append(s.sales, &cp)
	return nil
}

func (s *stubStore) UpdateSaleTx(_ context.Context, _ *gorm.DB, item *models.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sale := range s.sales {
		if sale.ID == item.ID {
			cp := *item
			s.sales[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubStore) ReplaceSaleLinesTx(_ context.Context, _ *gorm.DB, saleID string, lines []models.SaleLineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SaleLineItem, len(lines))
	copy(out, lines)
	for i := range out {
		out[i].SaleID = saleID
	}
	s.lines[saleID] = out
	return nil
}

func (s *stubStore) ListSales(_ context.Context, _ repository.ListSalesParams) ([]models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		out = append(out, *sale)
	}
	return out, nil
}

func (s *stubStore) CountSales(_ context.Context, _ repository.ListSalesParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.sales)), nil
}

func (s *stubStore) ListSaleLines(_ context.Context, saleID string) ([]models.SaleLineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.lines[saleID]
	out := make([]models.SaleLineItem, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *stubStore) GetSyncState(_ context.Context, scope string) (*models.SyncState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[scope]
	if !ok {
		return nil, nil
	}
	cp := *state
	return &cp, nil
}

func (s *stubStore) SaveSyncState(_ context.Context, state *models.SyncState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *state
	s.states[state.Scope] = &cp
	return nil
}

func (s *stubStore) ListSyncStates(_ context.Context) ([]models.SyncState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SyncState, 0, len(s.states))
	for _, state := range s.states {
		out = append(out, *state)
	}
	return out, nil
}

func (s *stubStore) CreateSyncRun(_ context.Context, run *models.SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *run
	s.runs = append(s.runs, &cp)
	return nil
}

func (s *stubStore) ListSyncRuns(_ context.Context, _ repository.ListSyncRunsParams) ([]models.SyncRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SyncRun, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, *run)
	}
	return out, nil
}

// stubQuickBooks serves scripted offset pages.
type stubQuickBooks struct {
	credsErr      error
	customerPages [][]quickbooks.Customer
	invoicePages  [][]quickbooks.Invoice

	customerErrAt int // 1-based fetch call that fails
	customerErr   error
	customerCalls int
	invoiceCalls  int
}

func (s *stubQuickBooks) CheckCredentials() error { return s.credsErr }

func (s *stubQuickBooks) CustomersPage(_ context.Context, _ int, _ int) ([]quickbooks.Customer, error) {
	s.customerCalls++
	if s.customerErrAt > 0 && s.customerCalls == s.customerErrAt {
		return nil, s.customerErr
	}
	idx := s.customerCalls - 1
	if idx >= len(s.customerPages) {
		return nil, nil
	}
	return s.customerPages[idx], nil
}

func (s *stubQuickBooks) InvoicesPage(_ context.Context, _ int, _ int) ([]quickbooks.Invoice, error) {
	s.invoiceCalls++
	idx := s.invoiceCalls - 1
	if idx >= len(s.invoicePages) {
		return nil, nil
	}
	return s.invoicePages[idx], nil
}

// stubShopify serves scripted cursor pages and records push calls.
type stubShopify struct {
	credsErr     error
	productPages [][]shopify.Product
	orderPages   [][]shopify.Order
	alwaysMore   bool

	productCalls int
	orderCalls   int

	createID  string
	createErr error
	updateErr error
	created   []shopify.ProductInput
	updated   map[string]shopify.ProductInput
}

func (s *stubShopify) CheckCredentials() error { return s.credsErr }

func (s *stubShopify) ProductsPage(_ context.Context, _ string, _ int) ([]shopify.Product, paging.PageInfo, error) {
	s.productCalls++
	if len(s.productPages) == 0 {
		return nil, paging.PageInfo{}, nil
	}
	idx := s.productCalls - 1
	if s.alwaysMore {
		idx = idx % len(s.productPages)
		return s.productPages[idx], paging.PageInfo{HasNextPage: true, EndCursor: fmt.Sprintf("c%d", s.productCalls)}, nil
	}
	if idx >= len(s.productPages) {
		return nil, paging.PageInfo{}, nil
	}
	info := paging.PageInfo{}
	if idx+1 < len(s.productPages) {
		info.HasNextPage = true
		info.EndCursor = fmt.Sprintf("c%d", idx+1)
	}
	return s.productPages[idx], info, nil
}

func (s *stubShopify) OrdersPage(_ context.Context, _ string, _ int) ([]shopify.Order, paging.PageInfo, error) {
	s.orderCalls++
	idx := s.orderCalls - 1
	if idx >= len(s.orderPages) {
		return nil, paging.PageInfo{}, nil
	}
	info := paging.PageInfo{}
	if idx+1 < len(s.orderPages) {
		info.HasNextPage = true
		info.EndCursor = fmt.Sprintf("c%d", idx+1)
	}
	return s.orderPages[idx], info, nil
}

func (s *stubShopify) CreateProduct(_ context.Context, in shopify.ProductInput) (*shopify.Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, in)
	id := s.createID
	if id == "" {
		id = "new-1"
	}
	return &shopify.Product{ID: id, Title: in.Title, Status: in.Status}, nil
}

func (s *stubShopify) UpdateProduct(_ context.Context, id string, in shopify.ProductInput) (*shopify.Product, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	if s.updated == nil {
		s.updated = map[string]shopify.ProductInput{}
	}
	s.updated[id] = in
	return &shopify.Product{ID: id, Title: in.Title}, nil
}
