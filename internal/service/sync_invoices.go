package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"stockroom/internal/client/quickbooks"
	"stockroom/internal/localid"
	"stockroom/internal/models"
	"stockroom/internal/paging"
)

func (s *SyncService) syncInvoices(ctx context.Context, opts SyncOptions, result *SyncResult) error {
	collected, err := paging.CollectOffset(ctx, s.pagingOptions(opts), s.QuickBooks.InvoicesPage)
	if err != nil {
		return err
	}
	result.Pages = collected.Pages
	result.Partial = collected.Partial
	result.Fetched = len(collected.Records)
	for i, remote := range collected.Records {
		result.apply(s.upsertInvoice(ctx, remote))
		s.reportRecordProgress(opts, i, len(collected.Records))
	}
	return nil
}

func (s *SyncService) upsertInvoice(ctx context.Context, remote quickbooks.Invoice) RecordResult {
	externalID := strings.TrimSpace(remote.ID)
	if externalID == "" {
		return RecordResult{Outcome: OutcomeSkipped, Error: "missing external id"}
	}
	res := RecordResult{ExternalID: externalID}

	existing, err := s.Store.FindSaleByExternalID(ctx, models.IntegrationQuickBooks, externalID)
	if err != nil {
		return s.recordFailure(res, "lookup invoice", err)
	}

	now := time.Now().UTC()
	created := existing == nil
	var sale *models.Sale
	if created {
		sale = &models.Sale{
			ID:           localid.FromExternal(models.IntegrationQuickBooks.String(), externalID),
			Kind:         models.SaleKindInvoice,
			QuickBooksID: &externalID,
		}
	} else {
		sale = existing
	}
	s.applyInvoice(ctx, sale, remote, now)
	lines := s.invoiceLines(ctx, sale.ID, remote)

	// The sale row and its replaced line set land in one transaction.
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
		op := "update invoice"
		if created {
			op = "create invoice"
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

func (s *SyncService) applyInvoice(ctx context.Context, sale *models.Sale, remote quickbooks.Invoice, now time.Time) {
	sale.Number = mergePtr(sale.Number, remote.DocNumber)
	if remote.TxnDate != nil && !remote.TxnDate.IsZero() {
		t := remote.TxnDate.Time
		sale.IssuedAt = &t
	}
	if remote.DueDate != nil && !remote.DueDate.IsZero() {
		t := remote.DueDate.Time
		sale.DueAt = &t
	}
	if remote.CurrencyRef != nil {
		sale.Currency = mergePtr(sale.Currency, remote.CurrencyRef.Value)
	}

	// Amounts and status are authoritative upstream.
	sale.Total = remote.TotalAmt
	sale.Balance = remote.Balance
	wasOverdue := sale.Status == models.SaleStatusOverdue
	sale.Status = invoiceStatus(remote, now)
	if sale.Status == models.SaleStatusOverdue && !wasOverdue {
		sale.NeedsAttention = true
		sale.Priority = models.PriorityHigh
	}

	// Link to the local customer when the referenced record is already
	// synced; otherwise the link stays as it was.
	if ref := remote.CustomerRef; ref != nil && strings.TrimSpace(ref.Value) != "" {
		customer, err := s.Store.FindCustomerByExternalID(ctx, models.IntegrationQuickBooks, ref.Value)
		if err == nil && customer != nil {
			sale.CustomerID = &customer.ID
		}
	}

	if id := strings.TrimSpace(remote.ID); id != "" {
		sale.QuickBooksID = &id
	}
	if remote.MetaData != nil {
		sale.ExternalUpdatedAt = mergeTime(sale.ExternalUpdatedAt, remote.MetaData.LastUpdatedTime)
	}
	sale.QuickBooksSyncedAt = &now
	sale.RawJSON = mustJSON(remote)
}

// invoiceStatus derives the local status: settled invoices are paid, unpaid
// ones past their due date are overdue, everything else stays open.
func invoiceStatus(remote quickbooks.Invoice, now time.Time) string {
	if remote.Balance.IsZero() {
		return models.SaleStatusPaid
	}
	if remote.DueDate != nil && !remote.DueDate.IsZero() && remote.DueDate.Before(now) {
		return models.SaleStatusOverdue
	}
	return models.SaleStatusOpen
}

func (s *SyncService) invoiceLines(ctx context.Context, saleID string, remote quickbooks.Invoice) []models.SaleLineItem {
	lines := make([]models.SaleLineItem, 0, len(remote.Line))
	position := 0
	for _, line := range remote.Line {
		if !line.IsSalesLine() {
			continue
		}
		position++
		item := models.SaleLineItem{
			SaleID:    saleID,
			Position:  position,
			Quantity:  line.SalesItemLineDetail.Qty,
			UnitPrice: line.SalesItemLineDetail.UnitPrice,
			Amount:    line.Amount,
		}
		if desc := strings.TrimSpace(line.Description); desc != "" {
			item.Description = &desc
		}
		if ref := line.SalesItemLineDetail.ItemRef; ref != nil && strings.TrimSpace(ref.Value) != "" {
			v := strings.TrimSpace(ref.Value)
			item.ExternalItemID = &v
			if local, err := s.Store.FindItemByExternalID(ctx, models.IntegrationQuickBooks, v); err == nil && local != nil {
				item.ItemID = &local.ID
			}
		}
		lines = append(lines, item)
	}
	return lines
}
