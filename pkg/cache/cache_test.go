package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func counter(calls *int32, v int) func(context.Context) (int, error) {
	return func(context.Context) (int, error) {
		atomic.AddInt32(calls, 1)
		return v, nil
	}
}

func TestLoadHonorsTTL(t *testing.T) {
	clk := newFakeClock()
	f := New[int](Options{Name: "ttl", TTL: time.Minute, Clock: clk.Now})
	var calls int32
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := f.Load(ctx, "k", counter(&calls, 7))
		if err != nil || v != 7 {
			t.Fatalf("unexpected %v %v", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("want 1 load, got %d", calls)
	}

	clk.Advance(59 * time.Second)
	f.Load(ctx, "k", counter(&calls, 8))
	if calls != 1 {
		t.Fatalf("entry expired early")
	}

	clk.Advance(time.Second)
	v, _ := f.Load(ctx, "k", counter(&calls, 8))
	if calls != 2 || v != 8 {
		t.Fatalf("expired entry was not replaced: calls=%d v=%d", calls, v)
	}
}

func TestLoadDoesNotCacheErrors(t *testing.T) {
	f := New[int](Options{Name: "errs", TTL: time.Minute})
	boom := errors.New("boom")
	_, err := f.Load(context.Background(), "k", func(context.Context) (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if _, ok := f.Get("k"); ok {
		t.Fatalf("error result was cached")
	}
}

func TestInsertionOrderPruning(t *testing.T) {
	clk := newFakeClock()
	f := New[string](Options{Name: "prune", TTL: time.Hour, Capacity: 3, Clock: clk.Now})
	for _, k := range []string{"a", "b", "c"} {
		f.Put(k, k)
	}
	// Reading "a" does not protect it: pruning follows insertion order.
	f.Get("a")
	f.Put("d", "d")

	if f.Len() != 3 {
		t.Fatalf("want 3 entries, got %d", f.Len())
	}
	if _, ok := f.Get("a"); ok {
		t.Fatalf("oldest insert should have been pruned")
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, ok := f.Get(k); !ok {
			t.Fatalf("%s missing", k)
		}
	}

	// Rewriting a key moves it to the newest position.
	f.Put("b", "b2")
	f.Put("e", "e")
	if _, ok := f.Get("c"); ok {
		t.Fatalf("c should have been pruned after b was rewritten")
	}
	if v, _ := f.Get("b"); v != "b2" {
		t.Fatalf("want rewritten b, got %q", v)
	}
}

func TestRecencyPruning(t *testing.T) {
	f := New[string](Options{Name: "recency", TTL: time.Hour, Capacity: 3, Recency: true})
	for _, k := range []string{"a", "b", "c"} {
		f.Put(k, k)
	}
	f.Get("a")
	f.Put("d", "d")
	if _, ok := f.Get("a"); !ok {
		t.Fatalf("recently read key was evicted")
	}
	if _, ok := f.Get("b"); ok {
		t.Fatalf("least recently used key survived")
	}
}

func TestSingleFlightSharesLoad(t *testing.T) {
	f := New[int](Options{Name: "flight", TTL: time.Minute, SingleFlight: true})
	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = f.Load(context.Background(), "k", load)
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls != 1 {
		t.Fatalf("want a single shared load, got %d", calls)
	}
	for _, r := range results {
		if r != 42 {
			t.Fatalf("unexpected result %d", r)
		}
	}
}

func TestWithoutSingleFlightDuplicatesWork(t *testing.T) {
	f := New[int](Options{Name: "dup", TTL: time.Minute})
	var calls int32
	var started sync.WaitGroup
	started.Add(2)
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		started.Done()
		<-release
		return int(atomic.LoadInt32(&calls)), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Load(context.Background(), "k", load)
		}()
	}
	started.Wait()
	close(release)
	wg.Wait()

	if calls != 2 {
		t.Fatalf("want 2 independent loads, got %d", calls)
	}
	if _, ok := f.Get("k"); !ok {
		t.Fatalf("last writer should have stored a value")
	}
}

func TestZeroTTLNeverHits(t *testing.T) {
	f := New[int](Options{Name: "off"})
	var calls int32
	f.Load(context.Background(), "k", counter(&calls, 1))
	f.Load(context.Background(), "k", counter(&calls, 1))
	if calls != 2 {
		t.Fatalf("zero TTL should disable caching, got %d loads", calls)
	}
}

func TestPurge(t *testing.T) {
	f := New[int](Options{Name: "purge", TTL: time.Minute})
	f.Put("a", 1)
	f.Put("b", 2)
	f.Purge()
	if f.Len() != 0 {
		t.Fatalf("purge left %d entries", f.Len())
	}
}
