package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stockroom/internal/client/shopify"
	"stockroom/internal/localid"
	"stockroom/internal/models"
	"stockroom/internal/paging"
)

func (s *SyncService) syncOrders(ctx context.Context, opts SyncOptions, result *SyncResult) error {
	collected, err := paging.CollectCursor(ctx, s.pagingOptions(opts), s.Shopify.OrdersPage)
	if err != nil {
		return err
	}
	result.Pages = collected.Pages
	result.Partial = collected.Partial
	result.Fetched = len(collected.Records)
	for i, remote := range collected.Records {
		result.apply(s.upsertOrder(ctx, remote))
		s.reportRecordProgress(opts, i, len(collected.Records))
	}
	return nil
}

func (s *SyncService) upsertOrder(ctx context.Context, remote shopify.Order) RecordResult {
	externalID := strings.TrimSpace(remote.ID)
	if externalID == "" {
		return RecordResult{Outcome: OutcomeSkipped, Error: "missing external id"}
	}
	res := RecordResult{ExternalID: externalID}

	existing, err := s.Store.FindSaleByExternalID(ctx, models.IntegrationShopify, externalID)
	if err != nil {
		return s.recordFailure(res, "lookup order", err)
	}

	now := time.Now().UTC()
	created := existing == nil
	var sale *models.Sale
	if created {
		sale = &models.Sale{
			ID:        localid.FromExternal(models.IntegrationShopify.String(), externalID),
			Kind:      models.SaleKindOrder,
			ShopifyID: &externalID,
		}
	} else {
		sale = existing
	}
	s.applyOrder(ctx, sale, remote, now)
	lines := s.orderLines(ctx, sale.ID, remote)

	err = s.Store.InTx(ctx, func(tx *gorm.DB) error {
		if created {
			if err := s.Store.CreateSaleTx(ctx, tx, sale); err != nil {
				return err
			}
		} else if err := s.Store.UpdateSaleTx(ctx, tx, sale); err != nil {
			return err
		}
		return s.Store.ReplaceSaleLinesTx(ctx, tx, sale.ID, lines)
	})
	if err != nil {
		op := "update order"
		if created {
			op = "create order"
		}
		return s.recordFailure(res, op, err)
	}

	res.LocalID = sale.ID
	if created {
		res.Outcome = OutcomeCreated
	} else {
		res.Outcome = OutcomeUpdated
	}
	return res
}

func (s *SyncService) applyOrder(ctx context.Context, sale *models.Sale, remote shopify.Order, now time.Time) {
	sale.Number = mergePtr(sale.Number, remote.Name)
	sale.Currency = mergePtr(sale.Currency, remote.Currency)
	sale.IssuedAt = mergeTime(sale.IssuedAt, remote.ProcessedAt)

	// Amounts and status are authoritative upstream.
	sale.Total = remote.TotalPrice
	sale.Status = orderStatus(remote.FinancialStatus)
	if sale.Status == models.SaleStatusPaid || sale.Status == models.SaleStatusCancelled {
		sale.Balance = decimal.Zero
	} else {
		sale.Balance = remote.TotalPrice
	}

	if c := remote.Customer; c != nil && strings.TrimSpace(c.ID) != "" {
		customer, err := s.Store.FindCustomerByExternalID(ctx, models.IntegrationShopify, c.ID)
		if err == nil && customer != nil {
			sale.CustomerID = &customer.ID
		}
	}

	if id := strings.TrimSpace(remote.ID); id != "" {
		sale.ShopifyID = &id
	}
	sale.ExternalUpdatedAt = mergeTime(sale.ExternalUpdatedAt, remote.UpdatedAt)
	sale.ShopifySyncedAt = &now
	sale.RawJSON = mustJSON(remote)
}

func orderStatus(financial string) string {
	switch strings.ToLower(strings.TrimSpace(financial)) {
	case "paid", "partially_refunded":
		return models.SaleStatusPaid
	case "voided", "refunded":
		return models.SaleStatusCancelled
	default:
		return models.SaleStatusOpen
	}
}

func (s *SyncService) orderLines(ctx context.Context, saleID string, remote shopify.Order) []models.SaleLineItem {
	lines := make([]models.SaleLineItem, 0, len(remote.LineItems))
	for i, line := range remote.LineItems {
		item := models.SaleLineItem{
			SaleID:    saleID,
			Position:  i + 1,
			Quantity:  decimal.NewFromInt(line.Quantity),
			UnitPrice: line.UnitPrice,
			Amount:    line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)),
		}
		if title := strings.TrimSpace(line.Title); title != "" {
			item.Description = &title
		}
		if pid := strings.TrimSpace(line.ProductID); pid != "" {
			item.ExternalItemID = &pid
			if local, err := s.Store.FindItemByExternalID(ctx, models.IntegrationShopify, pid); err == nil && local != nil {
				item.ItemID = &local.ID
			}
		}
		lines = append(lines, item)
	}
	return lines
}
