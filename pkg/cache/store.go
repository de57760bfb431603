package cache

import (
	"container/list"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// insertionStore drops the oldest-written keys once it grows past capacity.
// Reads do not refresh an entry's position.
type insertionStore[V any] struct {
	capacity int
	items    map[string]*list.Element
	order    *list.List
}

type insertionItem[V any] struct {
	key string
	e   entry[V]
}

func newInsertionStore[V any](capacity int) *insertionStore[V] {
	return &insertionStore[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (s *insertionStore[V]) get(key string) (entry[V], bool) {
	el, ok := s.items[key]
	if !ok {
		return entry[V]{}, false
	}
	return el.Value.(*insertionItem[V]).e, true
}

func (s *insertionStore[V]) put(key string, e entry[V]) {
	if el, ok := s.items[key]; ok {
		s.order.Remove(el)
	}
	s.items[key] = s.order.PushBack(&insertionItem[V]{key: key, e: e})
	for s.capacity > 0 && s.order.Len() > s.capacity {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*insertionItem[V]).key)
	}
}

func (s *insertionStore[V]) len() int { return s.order.Len() }

func (s *insertionStore[V]) purge() {
	s.items = make(map[string]*list.Element)
	s.order.Init()
}

// recencyStore evicts the least recently read key.
type recencyStore[V any] struct {
	lru *expirable.LRU[string, entry[V]]
}

func newRecencyStore[V any](capacity int, ttl time.Duration) *recencyStore[V] {
	if capacity < 0 {
		capacity = 0
	}
	return &recencyStore[V]{lru: expirable.NewLRU[string, entry[V]](capacity, nil, ttl)}
}

func (s *recencyStore[V]) get(key string) (entry[V], bool) { return s.lru.Get(key) }
func (s *recencyStore[V]) put(key string, e entry[V])      { s.lru.Add(key, e) }
func (s *recencyStore[V]) len() int                        { return s.lru.Len() }
func (s *recencyStore[V]) purge()                          { s.lru.Purge() }
