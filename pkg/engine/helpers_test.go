package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sheetshop/sheetshop/pkg/catalog"
	"github.com/sheetshop/sheetshop/pkg/sheets"
	"github.com/sheetshop/sheetshop/pkg/sheets/sheetstest"
)

func itemRow(id, title, brand, seller string) []string {
	cells := make([]string, sheets.Width)
	cells[catalog.ColID] = id
	cells[catalog.ColTitle] = title
	cells[catalog.ColBrand] = brand
	cells[catalog.ColCategory] = "shoes"
	cells[catalog.ColSeller] = seller
	cells[catalog.ColSourceURL] = "https://shop.example.com/item/" + id
	cells[catalog.ColSourcePrice] = "¥100"
	return cells
}

func numberedGrid(n int) [][]string {
	grid := make([][]string, n)
	for i := range grid {
		id := strconv.Itoa(i + 1)
		grid[i] = itemRow(id, fmt.Sprintf("Item %s", id), "Brand"+strconv.Itoa(i%2), "seller")
	}
	return grid
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type failingRates struct{}

func (failingRates) Rate(context.Context) (float64, error) {
	return 0, fmt.Errorf("rate service down")
}

func newTestEngine(f *sheetstest.Grid, mutate func(*Config)) (*Engine, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	cfg := Config{
		Reader: f,
		Clock:  clock.Now,
	}
	cfg.Caches = NewCaches(DefaultCacheConfig(), clock.Now)
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return e, clock
}
