// Package engine answers catalog queries against the backing spreadsheet. It
// decides which rows to read, fronts every read with a cache family and turns
// raw rows into catalog items.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sheetshop/sheetshop/pkg/cache"
	"github.com/sheetshop/sheetshop/pkg/catalog"
	"github.com/sheetshop/sheetshop/pkg/images"
	"github.com/sheetshop/sheetshop/pkg/rates"
	"github.com/sheetshop/sheetshop/pkg/sheets"
)

// ErrTooManyRows is returned by ItemsFromSheet when the sheet holds more rows
// than the configured hard cap.
var ErrTooManyRows = errors.New("engine: sheet exceeds the row cap")

const (
	DefaultMaxRows     = 5000
	DefaultHeadMax     = 200
	DefaultPageSize    = 24
	DefaultMaxPageSize = 100
)

// Config wires an Engine. Only Reader is required.
type Config struct {
	Reader sheets.Reader
	Tab    string
	Rates  rates.Provider
	Images *images.Normalizer
	Caches *Caches
	Log    Logger
	Clock  cache.Clock

	MaxRows     int
	HeadMax     int
	PageSize    int
	MaxPageSize int
}

// Engine is safe for concurrent use.
type Engine struct {
	sheet  *sheets.Accessor
	parser *catalog.Parser
	rates  rates.Provider
	caches *Caches
	log    Logger
	now    cache.Clock

	maxRows     int
	headMax     int
	pageSize    int
	maxPageSize int
}

// New validates cfg and returns an Engine. It performs no I/O.
func New(cfg Config) (*Engine, error) {
	if cfg.Reader == nil {
		return nil, errors.New("engine: a sheet reader is required")
	}
	parser, err := catalog.NewParser(cfg.Images)
	if err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Caches == nil {
		cfg.Caches = NewCaches(DefaultCacheConfig(), cfg.Clock)
	}
	if cfg.Log == nil {
		cfg.Log = nopLogger{}
	}
	return &Engine{
		sheet:       sheets.NewAccessor(cfg.Reader, cfg.Tab),
		parser:      parser,
		rates:       cfg.Rates,
		caches:      cfg.Caches,
		log:         cfg.Log,
		now:         cfg.Clock,
		maxRows:     orDefault(cfg.MaxRows, DefaultMaxRows),
		headMax:     orDefault(cfg.HeadMax, DefaultHeadMax),
		pageSize:    orDefault(cfg.PageSize, DefaultPageSize),
		maxPageSize: orDefault(cfg.MaxPageSize, DefaultMaxPageSize),
	}, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Caches exposes the cache families, e.g. for purging.
func (e *Engine) Caches() *Caches { return e.caches }

// rate never fails: a broken provider means prices stay unconverted.
func (e *Engine) rate(ctx context.Context) float64 {
	if e.rates == nil {
		return 0
	}
	r, err := e.rates.Rate(ctx)
	if err != nil {
		e.log.Warnf("conversion rate unavailable, prices left unconverted: %v", err)
		return 0
	}
	return r
}

// count returns the number of data rows up to the last row with a title.
func (e *Engine) count(ctx context.Context) (int, error) {
	return e.caches.Count.Load(ctx, "rows", func(ctx context.Context) (int, error) {
		rows, err := e.sheet.Range(ctx, catalog.ColTitle, catalog.ColTitle, sheets.FirstDataRow, 0)
		if err != nil {
			return 0, fmt.Errorf("counting rows: %w", err)
		}
		n := len(rows)
		for n > 0 && rows[n-1].Empty() {
			n--
		}
		e.log.Debugf("sheet holds %d data rows", n)
		return n, nil
	})
}

// fullRows reads complete rows at addrs and parses them in the given order.
func (e *Engine) fullRows(ctx context.Context, addrs []int) ([]catalog.Item, error) {
	rows, err := e.sheet.RowsAt(ctx, 0, sheets.Width-1, addrs)
	if err != nil {
		return nil, err
	}
	return e.parser.ParseAll(rows, e.rate(ctx)), nil
}

// fullRange reads complete rows start..end and parses them.
func (e *Engine) fullRange(ctx context.Context, start, end int) ([]catalog.Item, error) {
	rows, err := e.sheet.Range(ctx, 0, sheets.Width-1, start, end)
	if err != nil {
		return nil, err
	}
	return e.parser.ParseAll(rows, e.rate(ctx)), nil
}
