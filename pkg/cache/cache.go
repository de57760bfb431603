// Package cache provides the TTL-bounded, size-bounded memo maps that sit in
// front of every slow catalog read.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Options configures one cache family.
type Options struct {
	Name     string // metrics label
	TTL      time.Duration
	Capacity int // <= 0 means unbounded

	// Recency switches pruning from insertion order to least recently read.
	Recency bool
	// SingleFlight makes concurrent misses on one key share a single load.
	SingleFlight bool
	Clock        Clock
}

type entry[V any] struct {
	at  time.Time
	val V
}

// store is the bounded key space behind a Family.
type store[V any] interface {
	get(key string) (entry[V], bool)
	put(key string, e entry[V])
	len() int
	purge()
}

// Family is an independently keyed cache of values of one type. An entry is
// valid while now - storedAt < TTL; expired entries are replaced by the next
// load of their key.
type Family[V any] struct {
	name  string
	ttl   time.Duration
	now   Clock
	group *singleflight.Group

	mu    sync.Mutex
	store store[V]
}

// New builds a Family from opts.
func New[V any](opts Options) *Family[V] {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Name == "" {
		opts.Name = "default"
	}
	f := &Family[V]{name: opts.Name, ttl: opts.TTL, now: opts.Clock}
	if opts.Recency {
		f.store = newRecencyStore[V](opts.Capacity, opts.TTL)
	} else {
		f.store = newInsertionStore[V](opts.Capacity)
	}
	if opts.SingleFlight {
		f.group = &singleflight.Group{}
	}
	return f
}

// Name is the family's metrics label.
func (f *Family[V]) Name() string { return f.name }

// Get returns the cached value for key if it has not expired.
func (f *Family[V]) Get(key string) (V, bool) {
	f.mu.Lock()
	e, ok := f.store.get(key)
	f.mu.Unlock()
	if !ok || f.ttl <= 0 || f.now().Sub(e.at) >= f.ttl {
		var zero V
		return zero, false
	}
	return e.val, true
}

// Put stores v under key, stamped with the current time.
func (f *Family[V]) Put(key string, v V) {
	f.mu.Lock()
	f.store.put(key, entry[V]{at: f.now(), val: v})
	f.mu.Unlock()
}

// Load returns the cached value for key, or runs load and caches its result.
// Errors are returned to every waiting caller and are never cached.
func (f *Family[V]) Load(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if v, ok := f.Get(key); ok {
		cacheHits.WithLabelValues(f.name).Inc()
		return v, nil
	}
	cacheMisses.WithLabelValues(f.name).Inc()

	if f.group == nil {
		return f.fill(ctx, key, load)
	}

	// The shared load must not die with whichever caller started it.
	shared := context.WithoutCancel(ctx)
	res, err, _ := f.group.Do(key, func() (interface{}, error) {
		if v, ok := f.Get(key); ok {
			return v, nil
		}
		return f.fill(shared, key, load)
	})
	v, _ := res.(V)
	return v, err
}

func (f *Family[V]) fill(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	v, err := load(ctx)
	if err != nil {
		cacheLoadErrors.WithLabelValues(f.name).Inc()
		return v, err
	}
	f.Put(key, v)
	return v, nil
}

// Len is the number of stored entries, expired ones included.
func (f *Family[V]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store.len()
}

// Purge drops every entry.
func (f *Family[V]) Purge() {
	f.mu.Lock()
	f.store.purge()
	f.mu.Unlock()
}
