package service

import (
	"context"
	"strings"
	"time"

	"stockroom/internal/client/quickbooks"
	"stockroom/internal/localid"
	"stockroom/internal/models"
	"stockroom/internal/paging"
)

func (s *SyncService) syncCustomers(ctx context.Context, opts SyncOptions, result *SyncResult) error {
	collected, err := paging.CollectOffset(ctx, s.pagingOptions(opts), s.QuickBooks.CustomersPage)
	if err != nil {
		return err
	}
	result.Pages = collected.Pages
	result.Partial = collected.Partial
	result.Fetched = len(collected.Records)
	for i, remote := range collected.Records {
		result.apply(s.upsertCustomer(ctx, remote))
		s.reportRecordProgress(opts, i, len(collected.Records))
	}
	return nil
}

func (s *SyncService) upsertCustomer(ctx context.Context, remote quickbooks.Customer) RecordResult {
	externalID := strings.TrimSpace(remote.ID)
	if externalID == "" {
		return RecordResult{Outcome: OutcomeSkipped, Error: "missing external id"}
	}
	res := RecordResult{ExternalID: externalID}

	existing, err := s.Store.FindCustomerByExternalID(ctx, models.IntegrationQuickBooks, externalID)
	if err != nil {
		return s.recordFailure(res, "lookup customer", err)
	}

	now := time.Now().UTC()
	if existing == nil {
		item := &models.Customer{
			ID:           localid.FromExternal(models.IntegrationQuickBooks.String(), externalID),
			QuickBooksID: &externalID,
		}
		applyCustomer(item, remote, now)
		if err := s.Store.CreateCustomer(ctx, item); err != nil {
			return s.recordFailure(res, "create customer", err)
		}
		res.LocalID = item.ID
		res.Outcome = OutcomeCreated
		return res
	}

	applyCustomer(existing, remote, now)
	if err := s.Store.UpdateCustomer(ctx, existing); err != nil {
		return s.recordFailure(res, "update customer", err)
	}
	res.LocalID = existing.ID
	res.Outcome = OutcomeUpdated
	return res
}

func applyCustomer(item *models.Customer, remote quickbooks.Customer, now time.Time) {
	item.Name = mergeString(item.Name, remote.DisplayName)
	item.CompanyName = mergePtr(item.CompanyName, remote.CompanyName)
	item.Notes = mergePtr(item.Notes, remote.Notes)
	if remote.PrimaryEmailAddr != nil {
		item.Email = mergePtr(item.Email, remote.PrimaryEmailAddr.Address)
	}
	if remote.PrimaryPhone != nil {
		item.Phone = mergePtr(item.Phone, remote.PrimaryPhone.FreeFormNumber)
	}
	if addr := remote.BillAddr; addr != nil {
		item.BillingStreet = mergePtr(item.BillingStreet, addr.Line1)
		item.BillingCity = mergePtr(item.BillingCity, addr.City)
		item.BillingState = mergePtr(item.BillingState, addr.CountrySubDivisionCode)
		item.BillingPostalCode = mergePtr(item.BillingPostalCode, addr.PostalCode)
		item.BillingCountry = mergePtr(item.BillingCountry, addr.Country)
	}
	if addr := remote.ShipAddr; addr != nil {
		item.ShippingStreet = mergePtr(item.ShippingStreet, addr.Line1)
		item.ShippingCity = mergePtr(item.ShippingCity, addr.City)
		item.ShippingState = mergePtr(item.ShippingState, addr.CountrySubDivisionCode)
		item.ShippingPostalCode = mergePtr(item.ShippingPostalCode, addr.PostalCode)
		item.ShippingCountry = mergePtr(item.ShippingCountry, addr.Country)
	}

	// Balance is authoritative upstream.
	item.Balance = remote.Balance

	if id := strings.TrimSpace(remote.ID); id != "" {
		item.QuickBooksID = &id
	}
	if remote.MetaData != nil {
		item.ExternalUpdatedAt = mergeTime(item.ExternalUpdatedAt, remote.MetaData.LastUpdatedTime)
	}
	item.QuickBooksSyncedAt = &now
	item.RawJSON = mustJSON(remote)
}
