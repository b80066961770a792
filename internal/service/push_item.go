package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockroom/internal/client/shopify"
	"stockroom/internal/models"
)

type PushResult struct {
	ItemID     string  `json:"item_id"`
	ExternalID string  `json:"external_id,omitempty"`
	Outcome    Outcome `json:"outcome"`
}

// PushItem sends one local inventory item upstream. Items without a remote
// id are created and adopt the id the shop assigns; items that already have
// one are updated in place.
func (s *SyncService) PushItem(ctx context.Context, itemID string) (PushResult, error) {
	if s.Shopify == nil {
		return PushResult{}, fmt.Errorf("shopify client is nil")
	}
	if err := s.Shopify.CheckCredentials(); err != nil {
		return PushResult{}, err
	}

	item, err := s.Store.GetItem(ctx, itemID)
	if err != nil {
		return PushResult{}, err
	}
	if item == nil {
		return PushResult{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	input := productInput(item)
	now := time.Now().UTC()
	res := PushResult{ItemID: item.ID}

	if item.ShopifyID == nil || strings.TrimSpace(*item.ShopifyID) == "" {
		remote, err := s.Shopify.CreateProduct(ctx, input)
		if err != nil {
			return res, err
		}
		if remote != nil && strings.TrimSpace(remote.ID) != "" {
			id := strings.TrimSpace(remote.ID)
			item.ShopifyID = &id
			res.ExternalID = id
		}
		res.Outcome = OutcomeCreated
	} else {
		if _, err := s.Shopify.UpdateProduct(ctx, *item.ShopifyID, input); err != nil {
			return res, err
		}
		res.ExternalID = *item.ShopifyID
		res.Outcome = OutcomeUpdated
	}

	item.ShopifySyncedAt = &now
	if err := s.Store.UpdateItem(ctx, item); err != nil {
		return res, err
	}
	return res, nil
}

func productInput(item *models.InventoryItem) shopify.ProductInput {
	input := shopify.ProductInput{
		Title:             item.Name,
		Status:            item.Status,
		Price:             item.Price,
		InventoryQuantity: item.QuantityOnHand,
	}
	if item.Description != nil {
		input.Description = *item.Description
	}
	if item.SKU != nil {
		input.SKU = *item.SKU
	}
	if item.Barcode != nil {
		input.Barcode = *item.Barcode
	}
	return input
}
