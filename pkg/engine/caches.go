package engine

import (
	"time"

	"github.com/sheetshop/sheetshop/pkg/cache"
	"github.com/sheetshop/sheetshop/pkg/catalog"
	"github.com/sheetshop/sheetshop/pkg/query"
)

// CacheConfig sets TTL and capacity per cache family.
type CacheConfig struct {
	CountTTL, MetaTTL, PageTTL, OrderTTL, HeadTTL, LookupTTL time.Duration
	CountCap, MetaCap, PageCap, OrderCap, HeadCap, LookupCap int

	Recency      bool
	SingleFlight bool
}

// DefaultCacheConfig returns the stock TTLs and capacities.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		CountTTL:     time.Minute,
		MetaTTL:      5 * time.Minute,
		PageTTL:      2 * time.Minute,
		OrderTTL:     10 * time.Minute,
		HeadTTL:      5 * time.Minute,
		LookupTTL:    5 * time.Minute,
		CountCap:     50,
		MetaCap:      50,
		PageCap:      250,
		OrderCap:     100,
		HeadCap:      50,
		LookupCap:    50,
		SingleFlight: true,
	}
}

// Caches holds one family per expensive read. Families never touch each
// other's entries.
type Caches struct {
	Count  *cache.Family[int]
	Meta   *cache.Family[query.Meta]
	Pages  *cache.Family[[]catalog.Item]
	Orders *cache.Family[[]int]
	Head   *cache.Family[[]catalog.Item]
	Lookup *cache.Family[*query.LookupIndex]
}

// NewCaches builds every family from cfg. A nil clock means time.Now.
func NewCaches(cfg CacheConfig, clock cache.Clock) *Caches {
	opts := func(name string, ttl time.Duration, capacity int) cache.Options {
		return cache.Options{
			Name:         name,
			TTL:          ttl,
			Capacity:     capacity,
			Recency:      cfg.Recency,
			SingleFlight: cfg.SingleFlight,
			Clock:        clock,
		}
	}
	return &Caches{
		Count:  cache.New[int](opts("count", cfg.CountTTL, cfg.CountCap)),
		Meta:   cache.New[query.Meta](opts("meta", cfg.MetaTTL, cfg.MetaCap)),
		Pages:  cache.New[[]catalog.Item](opts("page", cfg.PageTTL, cfg.PageCap)),
		Orders: cache.New[[]int](opts("order", cfg.OrderTTL, cfg.OrderCap)),
		Head:   cache.New[[]catalog.Item](opts("head", cfg.HeadTTL, cfg.HeadCap)),
		Lookup: cache.New[*query.LookupIndex](opts("lookup", cfg.LookupTTL, cfg.LookupCap)),
	}
}

// Purge empties every family.
func (c *Caches) Purge() {
	c.Count.Purge()
	c.Meta.Purge()
	c.Pages.Purge()
	c.Orders.Purge()
	c.Head.Purge()
	c.Lookup.Purge()
}

// Sizes reports the entry count of each family.
func (c *Caches) Sizes() map[string]int {
	return map[string]int{
		c.Count.Name():  c.Count.Len(),
		c.Meta.Name():   c.Meta.Len(),
		c.Pages.Name():  c.Pages.Len(),
		c.Orders.Name(): c.Orders.Len(),
		c.Head.Name():   c.Head.Len(),
		c.Lookup.Name(): c.Lookup.Len(),
	}
}
