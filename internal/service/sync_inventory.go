package service

import (
	"context"
	"strings"
	"time"

	"stockroom/internal/client/shopify"
	"stockroom/internal/localid"
	"stockroom/internal/models"
	"stockroom/internal/paging"
)

func (s *SyncService) syncInventory(ctx context.Context, opts SyncOptions, result *SyncResult) error {
	collected, err := paging.CollectCursor(ctx, s.pagingOptions(opts), s.Shopify.ProductsPage)
	if err != nil {
		return err
	}
	result.Pages = collected.Pages
	result.Partial = collected.Partial
	result.Fetched = len(collected.Records)
	for i, remote := range collected.Records {
		result.apply(s.upsertInventoryItem(ctx, remote))
		s.reportRecordProgress(opts, i, len(collected.Records))
	}
	return nil
}

func (s *SyncService) upsertInventoryItem(ctx context.Context, remote shopify.Product) RecordResult {
	externalID := strings.TrimSpace(remote.ID)
	if externalID == "" {
		return RecordResult{Outcome: OutcomeSkipped, Error: "missing external id"}
	}
	res := RecordResult{ExternalID: externalID}

	existing, err := s.Store.FindItemByExternalID(ctx, models.IntegrationShopify, externalID)
	if err != nil {
		return s.recordFailure(res, "lookup item", err)
	}

	now := time.Now().UTC()
	if existing == nil {
		item := &models.InventoryItem{
			ID:        localid.FromExternal(models.IntegrationShopify.String(), externalID),
			ShopifyID: &externalID,
		}
		applyInventoryItem(item, remote, now)
		if err := s.Store.CreateItem(ctx, item); err != nil {
			return s.recordFailure(res, "create item", err)
		}
		res.LocalID = item.ID
		res.Outcome = OutcomeCreated
		return res
	}

	applyInventoryItem(existing, remote, now)
	if err := s.Store.UpdateItem(ctx, existing); err != nil {
		return s.recordFailure(res, "update item", err)
	}
	res.LocalID = existing.ID
	res.Outcome = OutcomeUpdated
	return res
}

func applyInventoryItem(item *models.InventoryItem, remote shopify.Product, now time.Time) {
	item.Name = mergeString(item.Name, remote.Title)
	item.Description = mergePtr(item.Description, remote.Description)

	// Status and stock are authoritative upstream.
	if status := itemStatus(remote.Status); status != "" {
		item.Status = status
	}
	if v := remote.PrimaryVariant(); v != nil {
		item.SKU = mergePtr(item.SKU, v.SKU)
		item.Barcode = mergePtr(item.Barcode, v.Barcode)
		item.Price = v.Price
		item.QuantityOnHand = v.InventoryQuantity
	}

	if id := strings.TrimSpace(remote.ID); id != "" {
		item.ShopifyID = &id
	}
	item.ExternalUpdatedAt = mergeTime(item.ExternalUpdatedAt, remote.UpdatedAt)
	item.ShopifySyncedAt = &now
	item.RawJSON = mustJSON(remote)
}

func itemStatus(remote string) string {
	switch strings.ToLower(strings.TrimSpace(remote)) {
	case models.ItemStatusActive:
		return models.ItemStatusActive
	case models.ItemStatusArchived:
		return models.ItemStatusArchived
	case models.ItemStatusDraft:
		return models.ItemStatusDraft
	}
	return ""
}
