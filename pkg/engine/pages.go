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

// Orderings accepted by CatalogPage.
const (
	OrderNatural = "natural"
	OrderShuffle = "shuffle"
)

// PageResult is one page of items. Page is clamped to [1, TotalPages] and
// TotalPages is at least 1.
type PageResult struct {
	Items      []catalog.Item `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalItems int            `json:"total_items"`
	TotalPages int            `json:"total_pages"`
}

// CatalogPage is a filtered, ordered page together with the facets of the
// whole catalog.
type CatalogPage struct {
	PageResult
	Facets query.Facets `json:"facets"`
	Order  string       `json:"order"`
	Seed   string       `json:"seed,omitempty"`
}

// PageQuery selects and orders the rows of CatalogPage.
type PageQuery struct {
	query.FilterSpec
	Order string
	// Seed drives the shuffle. Empty means the current UTC day.
	Seed string
}

// NormalizeOrder maps user input to OrderNatural or OrderShuffle.
func NormalizeOrder(o string) string {
	switch strings.ToLower(strings.TrimSpace(o)) {
	case OrderShuffle, "random":
		return OrderShuffle
	}
	return OrderNatural
}

func (e *Engine) clampSize(size int) int {
	if size <= 0 {
		size = e.pageSize
	}
	if size > e.maxPageSize {
		return e.maxPageSize
	}
	return size
}

// paginate clamps page into range and returns the [lo, hi) slice bounds of
// that page within total elements.
func paginate(total, page, size int) (clamped, pages, lo, hi int) {
	pages = (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	clamped = page
	if clamped < 1 {
		clamped = 1
	}
	if clamped > pages {
		clamped = pages
	}
	lo = (clamped - 1) * size
	if lo > total {
		lo = total
	}
	hi = lo + size
	if hi > total {
		hi = total
	}
	return clamped, pages, lo, hi
}

// ItemsPage returns an unfiltered page in sheet order, read as one contiguous
// range. Absent rows inside the range are skipped, so a page may hold fewer
// than size items.
func (e *Engine) ItemsPage(ctx context.Context, page, size int) (*PageResult, error) {
	size = e.clampSize(size)
	total, err := e.count(ctx)
	if err != nil {
		return nil, err
	}
	page, pages, lo, hi := paginate(total, page, size)

	res := &PageResult{Page: page, PageSize: size, TotalItems: total, TotalPages: pages}
	if lo == hi {
		res.Items = []catalog.Item{}
		return res, nil
	}

	key := fmt.Sprintf("%d:%d", page, size)
	res.Items, err = e.caches.Pages.Load(ctx, key, func(ctx context.Context) ([]catalog.Item, error) {
		return e.fullRange(ctx, sheets.FirstDataRow+lo, sheets.FirstDataRow+hi-1)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CatalogPage runs the full pipeline: metadata, filter, order, slice, then a
// batch read of just the rows on the requested page.
func (e *Engine) CatalogPage(ctx context.Context, page, size int, q PageQuery) (*CatalogPage, error) {
	size = e.clampSize(size)
	meta, err := e.Meta(ctx)
	if err != nil {
		return nil, err
	}

	spec := q.FilterSpec.Normalize()
	order := NormalizeOrder(q.Order)
	seed := ""
	orderKey := order + "|" + spec.Signature()
	if order == OrderShuffle {
		seed = strings.TrimSpace(q.Seed)
		if seed == "" {
			seed = query.DaySeed(e.now())
		}
		orderKey = seed + "|" + orderKey
	}

	// Orders outlive a metadata rebuild otherwise and would point at stale rows.
	cacheKey := strconv.FormatInt(meta.BuiltAt.UnixNano(), 10) + "|" + orderKey
	addrs, err := e.caches.Orders.Load(ctx, cacheKey, func(context.Context) ([]int, error) {
		matched := query.Filter(meta.Rows, spec)
		if order == OrderShuffle {
			return query.Shuffle(orderKey, matched), nil
		}
		return matched, nil
	})
	if err != nil {
		return nil, err
	}

	page, pages, lo, hi := paginate(len(addrs), page, size)
	res := &CatalogPage{
		PageResult: PageResult{Page: page, PageSize: size, TotalItems: len(addrs), TotalPages: pages},
		Facets:     meta.Facets,
		Order:      order,
		Seed:       seed,
	}
	if lo == hi {
		res.Items = []catalog.Item{}
		return res, nil
	}
	res.Items, err = e.fullRows(ctx, addrs[lo:hi])
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Meta returns the cached metadata index, rebuilding it from one range read
// on a miss.
func (e *Engine) Meta(ctx context.Context) (query.Meta, error) {
	return e.caches.Meta.Load(ctx, "meta", func(ctx context.Context) (query.Meta, error) {
		rows, err := e.sheet.Range(ctx, query.MetaFirstCol, query.MetaLastCol, sheets.FirstDataRow, 0)
		if err != nil {
			return query.Meta{}, fmt.Errorf("reading metadata: %w", err)
		}
		meta := query.BuildMeta(rows)
		meta.BuiltAt = e.now()
		e.log.Debugf("metadata index rebuilt: %d rows, %d brands, %d categories, %d sellers",
			len(meta.Rows), len(meta.Facets.Brands), len(meta.Facets.Categories), len(meta.Facets.Sellers))
		return meta, nil
	})
}

// Facets returns the facets of the whole catalog.
func (e *Engine) Facets(ctx context.Context) (query.Facets, error) {
	meta, err := e.Meta(ctx)
	if err != nil {
		return query.Facets{}, err
	}
	return meta.Facets, nil
}
