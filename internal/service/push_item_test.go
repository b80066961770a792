package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"stockroom/internal/httpx"
	"stockroom/internal/localid"
	"stockroom/internal/models"
)

func seedLocalItem(store *stubStore) *models.InventoryItem {
	sku := "W-1"
	item := &models.InventoryItem{
		ID:             localid.New(),
		Name:           "Widget",
		SKU:            &sku,
		Status:         models.ItemStatusActive,
		Price:          dec("19.90"),
		QuantityOnHand: 12,
	}
	store.items = append(store.items, item)
	return item
}

func TestPushItemCreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	item := seedLocalItem(store)
	sh := &stubShopify{createID: "7001"}
	svc := newSyncService(store, &stubQuickBooks{}, sh)

	res, err := svc.PushItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if res.Outcome != OutcomeCreated || res.ExternalID != "7001" || res.ItemID != item.ID {
		t.Fatalf("result=%+v", res)
	}
	if len(sh.created) != 1 {
		t.Fatalf("created=%d want 1", len(sh.created))
	}
	sent := sh.created[0]
	if sent.Title != "Widget" || sent.SKU != "W-1" || !sent.Price.Equal(dec("19.90")) || sent.InventoryQuantity != 12 {
		t.Errorf("payload=%+v", sent)
	}

	got, _ := store.GetItem(ctx, item.ID)
	if got.ShopifyID == nil || *got.ShopifyID != "7001" {
		t.Fatalf("item did not adopt the remote id: %v", got.ShopifyID)
	}
	if got.ShopifySyncedAt == nil {
		t.Error("synced-at not stamped")
	}

	// Second push goes through the update path against the adopted id.
	res, err = svc.PushItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("second push: %v", err)
	}
	if res.Outcome != OutcomeUpdated || res.ExternalID != "7001" {
		t.Fatalf("second result=%+v", res)
	}
	if _, ok := sh.updated["7001"]; !ok {
		t.Errorf("update not issued: %v", sh.updated)
	}
	if len(sh.created) != 1 {
		t.Errorf("no second create expected")
	}
}

func TestPushItemUnknownItem(t *testing.T) {
	svc := newSyncService(newStubStore(), &stubQuickBooks{}, &stubShopify{})
	if _, err := svc.PushItem(context.Background(), "no-such-item"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("err=%v want not found", err)
	}
}

func TestPushItemMissingCredentials(t *testing.T) {
	store := newStubStore()
	item := seedLocalItem(store)
	sh := &stubShopify{credsErr: fmt.Errorf("%w: shopify access token", httpx.ErrMissingCredentials)}
	svc := newSyncService(store, &stubQuickBooks{}, sh)

	if _, err := svc.PushItem(context.Background(), item.ID); !errors.Is(err, httpx.ErrMissingCredentials) {
		t.Fatalf("err=%v want missing credentials", err)
	}
	if len(sh.created) != 0 {
		t.Errorf("no create should be attempted")
	}
}

func TestPushItemCreateFailureLeavesItemUntouched(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	item := seedLocalItem(store)
	sh := &stubShopify{createErr: errors.New("shop unavailable")}
	svc := newSyncService(store, &stubQuickBooks{}, sh)

	if _, err := svc.PushItem(ctx, item.ID); err == nil {
		t.Fatal("expected create error")
	}
	got, _ := store.GetItem(ctx, item.ID)
	if got.ShopifyID != nil || got.ShopifySyncedAt != nil {
		t.Errorf("failed push must not stamp the item: %+v", got)
	}
}
