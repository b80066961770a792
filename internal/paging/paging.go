// Package paging drives remote collection walks: a cursor-style loop and a
// 1-based offset loop, both bounded by a hard page cap.
package paging

import (
	"context"
	"fmt"
)

const (
	DefaultPageSize = 100
	DefaultMaxPages = 100
)

// ProgressFunc receives human-readable progress messages. It carries no
// control semantics and must not block the walk.
type ProgressFunc func(message string)

// PageInfo is the continuation marker returned alongside a cursor page.
type PageInfo struct {
	HasNextPage bool
	EndCursor   string
}

// Options bound one collection walk.
type Options struct {
	PageSize int
	MaxPages int
	Progress ProgressFunc
}

// Collection is everything gathered in one walk, in server order. Partial is
// set only when the page cap stopped the walk with the server still claiming
// more pages; fetch failures never produce partial results.
type Collection[T any] struct {
	Records []T
	Pages   int
	Partial bool
}

type CursorPageFunc[T any] func(ctx context.Context, after string, limit int) ([]T, PageInfo, error)

type OffsetPageFunc[T any] func(ctx context.Context, start, limit int) ([]T, error)

// CollectCursor fetches pages until the server reports no next page, a page
// comes back empty, or the cap trips. Any fetch error abandons the whole
// walk.
func CollectCursor[T any](ctx context.Context, opts Options, fetch CursorPageFunc[T]) (Collection[T], error) {
	var out Collection[T]
	limit := opts.pageSize()
	maxPages := opts.maxPages()
	cursor := ""
	for page := 0; page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return Collection[T]{}, err
		}
		opts.report(fmt.Sprintf("fetching page %d", page+1))
		records, info, err := fetch(ctx, cursor, limit)
		if err != nil {
			return Collection[T]{}, fmt.Errorf("fetch page %d: %w", page+1, err)
		}
		out.Pages++
		out.Records = append(out.Records, records...)
		if !info.HasNextPage || len(records) == 0 {
			return out, nil
		}
		cursor = info.EndCursor
	}
	out.Partial = true
	opts.reportPartial(out.Pages, len(out.Records))
	return out, nil
}

// CollectOffset fetches 1-based offset pages, advancing by the page length,
// until a short or empty page ends the collection or the cap trips.
func CollectOffset[T any](ctx context.Context, opts Options, fetch OffsetPageFunc[T]) (Collection[T], error) {
	var out Collection[T]
	limit := opts.pageSize()
	maxPages := opts.maxPages()
	start := 1
	for page := 0; page < maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return Collection[T]{}, err
		}
		opts.report(fmt.Sprintf("fetching page %d", page+1))
		records, err := fetch(ctx, start, limit)
		if err != nil {
			return Collection[T]{}, fmt.Errorf("fetch page %d: %w", page+1, err)
		}
		out.Pages++
		out.Records = append(out.Records, records...)
		if len(records) < limit {
			return out, nil
		}
		start += len(records)
	}
	out.Partial = true
	opts.reportPartial(out.Pages, len(out.Records))
	return out, nil
}

func (o Options) pageSize() int {
	if o.PageSize <= 0 {
		return DefaultPageSize
	}
	return o.PageSize
}

func (o Options) maxPages() int {
	if o.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return o.MaxPages
}

func (o Options) report(message string) {
	if o.Progress != nil {
		o.Progress(message)
	}
}

func (o Options) reportPartial(pages, records int) {
	o.report(fmt.Sprintf("partial sync: stopped at the %d page cap with more remaining, keeping %d records", pages, records))
}
