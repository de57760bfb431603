package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sheetshop/sheetshop/pkg/catalog"
	"github.com/sheetshop/sheetshop/pkg/query"
	"github.com/sheetshop/sheetshop/pkg/sheets"
)

// ItemBySlugOrID resolves key by slug, then title, then id and returns the
// fully parsed row. A key that matches nothing yields nil and no error.
func (e *Engine) ItemBySlugOrID(ctx context.Context, key string) (*catalog.Item, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	ix, err := e.lookup(ctx)
	if err != nil {
		return nil, err
	}
	addr, ok := ix.Resolve(key)
	if !ok {
		return nil, nil
	}
	items, err := e.fullRows(ctx, []int{addr})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (e *Engine) lookup(ctx context.Context) (*query.LookupIndex, error) {
	return e.caches.Lookup.Load(ctx, "index", func(ctx context.Context) (*query.LookupIndex, error) {
		rows, err := e.sheet.Range(ctx, query.LookupFirstCol, query.LookupLastCol, sheets.FirstDataRow, 0)
		if err != nil {
			return nil, fmt.Errorf("reading lookup columns: %w", err)
		}
		return query.BuildLookup(rows), nil
	})
}

// ItemsHead returns up to limit items from the top of the sheet. limit is
// clamped to [1, HeadMax].
func (e *Engine) ItemsHead(ctx context.Context, limit int) ([]catalog.Item, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > e.headMax {
		limit = e.headMax
	}
	return e.caches.Head.Load(ctx, strconv.Itoa(limit), func(ctx context.Context) ([]catalog.Item, error) {
		return e.fullRange(ctx, sheets.FirstDataRow, sheets.FirstDataRow+limit-1)
	})
}

// ItemsFromSheet loads every item. It fails with ErrTooManyRows instead of
// reading more than the configured row cap.
func (e *Engine) ItemsFromSheet(ctx context.Context) ([]catalog.Item, error) {
	total, err := e.count(ctx)
	if err != nil {
		return nil, err
	}
	if total > e.maxRows {
		return nil, fmt.Errorf("%w: %d rows, cap is %d", ErrTooManyRows, total, e.maxRows)
	}
	if total == 0 {
		return []catalog.Item{}, nil
	}
	return e.fullRange(ctx, sheets.FirstDataRow, sheets.FirstDataRow+total-1)
}
