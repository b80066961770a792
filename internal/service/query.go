package service

import (
	"context"

	"stockroom/internal/models"
	"stockroom/internal/repository"
)

// QueryService backs the read-side HTTP endpoints.
type QueryService struct {
	Store repository.Repository
}

type SaleDetail struct {
	Sale  models.Sale           `json:"sale"`
	Lines []models.SaleLineItem `json:"lines"`
}

func (s *QueryService) ListCustomers(ctx context.Context, params repository.ListCustomersParams) ([]models.Customer, int64, error) {
	items, err := s.Store.ListCustomers(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountCustomers(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *QueryService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return s.Store.GetCustomer(ctx, id)
}

func (s *QueryService) ListItems(ctx context.Context, params repository.ListItemsParams) ([]models.InventoryItem, int64, error) {
	items, err := s.Store.ListItems(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountItems(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *QueryService) GetItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	return s.Store.GetItem(ctx, id)
}

func (s *QueryService) ListSales(ctx context.Context, params repository.ListSalesParams) ([]models.Sale, int64, error) {
	items, err := s.Store.ListSales(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountSales(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *QueryService) GetSaleDetail(ctx context.Context, id string) (*SaleDetail, error) {
	sale, err := s.Store.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	lines, err := s.Store.ListSaleLines(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	return &SaleDetail{Sale: *sale, Lines: lines}, nil
}

func (s *QueryService) SyncStates(ctx context.Context) ([]models.SyncState, error) {
	return s.Store.ListSyncStates(ctx)
}

func (s *QueryService) SyncRuns(ctx context.Context, params repository.ListSyncRunsParams) ([]models.SyncRun, error) {
	return s.Store.ListSyncRuns(ctx, params)
}
