package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"stockroom/internal/client/quickbooks"
	"stockroom/internal/client/shopify"
	"stockroom/internal/localid"
	"stockroom/internal/lock"
	"stockroom/internal/models"
	"stockroom/internal/paging"
	"stockroom/internal/repository"
)

const (
	ScopeCustomers = "customers"
	ScopeInvoices  = "invoices"
	ScopeInventory = "inventory"
	ScopeOrders    = "orders"
	ScopeAll       = "all"
)

// progressEvery is the record interval between progress callbacks.
const progressEvery = 50

const defaultLockTTL = 10 * time.Minute

var (
	ErrUnknownScope = errors.New("unsupported sync scope")
	ErrSyncBusy     = errors.New("sync already running")
	ErrItemNotFound = errors.New("inventory item not found")
)

// ShopifySource is the slice of the commerce client the sync engine uses.
type ShopifySource interface {
	CheckCredentials() error
	ProductsPage(ctx context.Context, after string, limit int) ([]shopify.Product, paging.PageInfo, error)
	OrdersPage(ctx context.Context, after string, limit int) ([]shopify.Order, paging.PageInfo, error)
	CreateProduct(ctx context.Context, in shopify.ProductInput) (*shopify.Product, error)
	UpdateProduct(ctx context.Context, id string, in shopify.ProductInput) (*shopify.Product, error)
}

// QuickBooksSource is the slice of the accounting client the sync engine uses.
type QuickBooksSource interface {
	CheckCredentials() error
	CustomersPage(ctx context.Context, start, limit int) ([]quickbooks.Customer, error)
	InvoicesPage(ctx context.Context, start, limit int) ([]quickbooks.Invoice, error)
}

type SyncService struct {
	Store      repository.Repository
	Shopify    ShopifySource
	QuickBooks QuickBooksSource
	Locker     lock.Locker
	Logger     *zap.Logger

	PageSize int
	MaxPages int
	LockTTL  time.Duration
}

type SyncOptions struct {
	Scope    string
	PageSize int
	MaxPages int
	Progress paging.ProgressFunc
}

// Outcome classifies what the reconciler did with one remote record. Exactly
// one of these applies per record.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

type RecordResult struct {
	ExternalID string
	LocalID    string
	Outcome    Outcome
	Error      string
}

type SyncResult struct {
	Scope   string `json:"scope"`
	RunID   string `json:"run_id,omitempty"`
	Pages   int    `json:"pages"`
	Fetched int    `json:"fetched"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Partial bool   `json:"partial"`

	// Records carries the per-record outcomes for callers that want them;
	// it stays out of the JSON aggregate.
	Records []RecordResult `json:"-"`
}

func (r *SyncResult) apply(res RecordResult) {
	r.Records = append(r.Records, res)
	switch res.Outcome {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}

func (r *SyncResult) merge(other SyncResult) {
	r.Pages += other.Pages
	r.Fetched += other.Fetched
	r.Created += other.Created
	r.Updated += other.Updated
	r.Skipped += other.Skipped
	r.Failed += other.Failed
	r.Partial = r.Partial || other.Partial
	r.Records = append(r.Records, other.Records...)
}

// Sync runs one named scope, or every scope in dependency order for "all":
// customers before invoices and inventory before orders, so cross-entity
// links resolve on the first pass.
func (s *SyncService) Sync(ctx context.Context, opts SyncOptions) (SyncResult, error) {
	scope := strings.ToLower(strings.TrimSpace(opts.Scope))
	if scope == "" {
		scope = ScopeAll
	}
	switch scope {
	case ScopeCustomers:
		return s.runScope(ctx, scope, models.IntegrationQuickBooks, opts, s.syncCustomers)
	case ScopeInvoices:
		return s.runScope(ctx, scope, models.IntegrationQuickBooks, opts, s.syncInvoices)
	case ScopeInventory:
		return s.runScope(ctx, scope, models.IntegrationShopify, opts, s.syncInventory)
	case ScopeOrders:
		return s.runScope(ctx, scope, models.IntegrationShopify, opts, s.syncOrders)
	case ScopeAll:
		result := SyncResult{Scope: ScopeAll}
		for _, sub := range []string{ScopeCustomers, ScopeInventory, ScopeInvoices, ScopeOrders} {
			subOpts := opts
			subOpts.Scope = sub
			res, err := s.Sync(ctx, subOpts)
			result.merge(res)
			if err != nil {
				return result, err
			}
		}
		return result, nil
	default:
		return SyncResult{}, fmt.Errorf("%w: %s", ErrUnknownScope, scope)
	}
}

type scopeSyncFunc func(ctx context.Context, opts SyncOptions, result *SyncResult) error

func (s *SyncService) runScope(ctx context.Context, scope string, integration models.Integration, opts SyncOptions, fn scopeSyncFunc) (SyncResult, error) {
	result := SyncResult{Scope: scope}
	if err := s.checkSource(integration); err != nil {
		return result, err
	}

	release, ok, err := s.acquireLock(ctx, integration)
	if err != nil {
		return result, err
	}
	if !ok {
		return result, fmt.Errorf("%w: %s", ErrSyncBusy, integration)
	}
	defer release()

	started := time.Now().UTC()
	err = fn(ctx, opts, &result)
	s.recordRun(ctx, scope, integration, started, &result, err)
	if err != nil {
		s.writeSyncError(ctx, scope, integration, err)
		return result, err
	}
	s.writeSyncSuccess(ctx, scope, integration, &result)
	return result, nil
}

func (s *SyncService) checkSource(integration models.Integration) error {
	switch integration {
	case models.IntegrationShopify:
		if s.Shopify == nil {
			return fmt.Errorf("shopify client is nil")
		}
		return s.Shopify.CheckCredentials()
	case models.IntegrationQuickBooks:
		if s.QuickBooks == nil {
			return fmt.Errorf("quickbooks client is nil")
		}
		return s.QuickBooks.CheckCredentials()
	}
	return fmt.Errorf("unknown integration: %s", integration)
}

func (s *SyncService) acquireLock(ctx context.Context, integration models.Integration) (func(), bool, error) {
	if s.Locker == nil {
		return func() {}, true, nil
	}
	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return s.Locker.Acquire(ctx, "sync:"+integration.String(), ttl)
}

func (s *SyncService) recordRun(ctx context.Context, scope string, integration models.Integration, started time.Time, result *SyncResult, runErr error) {
	finished := time.Now().UTC()
	run := &models.SyncRun{
		ID:          localid.New(),
		Scope:       scope,
		Integration: integration.String(),
		StartedAt:   started,
		FinishedAt:  &finished,
		Pages:       result.Pages,
		Fetched:     result.Fetched,
		Created:     result.Created,
		Updated:     result.Updated,
		Skipped:     result.Skipped,
		Failed:      result.Failed,
		Partial:     result.Partial,
	}
	if runErr != nil {
		run.Error = strPtr(runErr.Error())
	}
	result.RunID = run.ID
	if err := s.Store.CreateSyncRun(ctx, run); err != nil && s.Logger != nil {
		s.Logger.Warn("record sync run", zap.String("scope", scope), zap.Error(err))
	}
}

func (s *SyncService) writeSyncError(ctx context.Context, scope string, integration models.Integration, err error) {
	if s.Logger != nil {
		s.Logger.Warn("sync failed", zap.String("scope", scope), zap.Error(err))
	}
	// Keep the previous success timestamp; the save overwrites every column.
	state, _ := s.Store.GetSyncState(ctx, scope)
	if state == nil {
		state = &models.SyncState{Scope: scope}
	}
	now := time.Now().UTC()
	state.Integration = integration.String()
	state.LastAttemptAt = &now
	state.LastError = strPtr(err.Error())
	_ = s.Store.SaveSyncState(ctx, state)
}

func (s *SyncService) writeSyncSuccess(ctx context.Context, scope string, integration models.Integration, result *SyncResult) {
	now := time.Now().UTC()
	state := &models.SyncState{
		Scope:         scope,
		Integration:   integration.String(),
		LastAttemptAt: &now,
		LastSuccessAt: &now,
		StatsJSON: statsJSON(map[string]int{
			"pages":   result.Pages,
			"fetched": result.Fetched,
			"created": result.Created,
			"updated": result.Updated,
			"skipped": result.Skipped,
			"failed":  result.Failed,
		}),
	}
	if err := s.Store.SaveSyncState(ctx, state); err != nil && s.Logger != nil {
		s.Logger.Warn("save sync state", zap.String("scope", scope), zap.Error(err))
	}
}

func (s *SyncService) pagingOptions(opts SyncOptions) paging.Options {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = s.PageSize
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = s.MaxPages
	}
	return paging.Options{PageSize: pageSize, MaxPages: maxPages, Progress: s.progress(opts)}
}

// progress resolves the run's progress sink: the caller's callback when one
// was given, Debug logging otherwise.
func (s *SyncService) progress(opts SyncOptions) paging.ProgressFunc {
	if opts.Progress != nil {
		return opts.Progress
	}
	if s.Logger == nil {
		return nil
	}
	return func(message string) {
		s.Logger.Debug("sync progress", zap.String("message", message))
	}
}

func (s *SyncService) reportRecordProgress(opts SyncOptions, index, total int) {
	report := s.progress(opts)
	if report == nil {
		return
	}
	n := index + 1
	if n%progressEvery == 0 || n == total {
		report(fmt.Sprintf("processed %d/%d records", n, total))
	}
}

func (s *SyncService) recordFailure(res RecordResult, op string, err error) RecordResult {
	if s.Logger != nil {
		s.Logger.Warn("record sync failed",
			zap.String("op", op),
			zap.String("external_id", res.ExternalID),
			zap.Error(err))
	}
	res.Outcome = OutcomeFailed
	res.Error = err.Error()
	return res
}

func statsJSON(stats map[string]int) datatypes.JSON {
	if len(stats) == 0 {
		return datatypes.JSON([]byte("null"))
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(payload)
}

func mustJSON(v any) datatypes.JSON {
	payload, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(payload)
}

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
