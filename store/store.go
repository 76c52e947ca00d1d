package store

import (
	"container/list"
	"sync"
	"time"

	"github.com/krisalay/jobcache/eviction"
	"github.com/krisalay/jobcache/expiration"
	"github.com/krisalay/jobcache/types"
)

/*
This file defines where completed results live.

The store is a map for O(1) lookup plus a list that remembers the order keys were
first inserted. Eviction walks keys in that order, so when two entries tie on
score the one inserted first is evicted.
*/

// Status tells Get what it found.
type Status int

const (
	Miss Status = iota
	Hit
	Stale
)

func (s Status) String() string {
	switch s {
	case Hit:
		return "hit"
	case Stale:
		return "stale"
	default:
		return "miss"
	}
}

// Store holds completed results keyed by job key.
type Store[V any] struct {
	mu sync.Mutex

	// capacity is the maximum number of resident entries; <= 0 means unbounded.
	capacity int

	items map[string]*list.Element // key -> element holding *types.Entry[V]
	order *list.List               // insertion order, oldest at the front

	policy     eviction.Policy
	expiration expiration.Strategy
}

// New creates a store. A nil policy means LRU, a nil strategy means per-entry cooldowns.
func New[V any](capacity int, policy eviction.Policy, exp expiration.Strategy) *Store[V] {
	if policy == nil {
		policy = eviction.NewEvictionPolicy(eviction.LRU)
	}
	if exp == nil {
		exp = expiration.Cooldown{}
	}
	return &Store[V]{
		capacity:   capacity,
		items:      make(map[string]*list.Element),
		order:      list.New(),
		policy:     policy,
		expiration: exp,
	}
}

/*
Get returns the result for key.

  - Hit: the entry is fresh; its recency score and hit count are bumped
  - Stale: the entry has elapsed; it is left in place and untouched
  - Miss: nothing is stored for key
*/
func (s *Store[V]) Get(key string, now time.Time) (V, Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	el, ok := s.items[key]
	if !ok {
		return zero, Miss
	}

	e := el.Value.(*types.Entry[V])
	if s.expiration.IsElapsed(&e.Meta, now) {
		return zero, Stale
	}

	e.LastAccessedAt = now
	e.Hits++
	return e.Value, Hit
}

// Peek returns a copy of the entry without touching its recency or staleness.
func (s *Store[V]) Peek(key string) (types.Entry[V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return types.Entry[V]{}, false
	}
	return *el.Value.(*types.Entry[V]), true
}

// All returns a snapshot of every resident result, stale ones included.
func (s *Store[V]) All() map[string]V {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]V, len(s.items))
	for k, el := range s.items {
		out[k] = el.Value.(*types.Entry[V]).Value
	}
	return out
}

/*
Put stores the result of a successful run.

If key is new and the store is full, exactly one entry is evicted first and its
key is returned with evicted=true. Overwriting an existing key never evicts; it
keeps the key's position and CreatedAt.
*/
func (s *Store[V]) Put(key string, value V, cooldown time.Duration, now time.Time) (victim string, evicted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		e := el.Value.(*types.Entry[V])
		e.Value = value
		e.Cooldown = cooldown
		e.LastRunAt = now
		e.LastAccessedAt = now
		return "", false
	}

	if s.capacity > 0 && len(s.items) >= s.capacity {
		victim, evicted = s.evictLocked()
	}

	e := &types.Entry[V]{
		Meta: types.Meta{
			Key:            key,
			CreatedAt:      now,
			LastRunAt:      now,
			LastAccessedAt: now,
			Cooldown:       cooldown,
		},
		Value: value,
	}
	s.items[key] = s.order.PushBack(e)

	return victim, evicted
}

// Delete removes key. It reports whether anything was removed.
func (s *Store[V]) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(key)
}

// Len returns the number of resident entries, stale ones included.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Keys returns resident keys in insertion order.
func (s *Store[V]) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*types.Entry[V]).Key)
	}
	return out
}

func (s *Store[V]) evictLocked() (string, bool) {
	metas := make([]*types.Meta, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		metas = append(metas, &el.Value.(*types.Entry[V]).Meta)
	}

	m, ok := eviction.MinBy(metas, s.policy.Score)
	if !ok {
		return "", false
	}
	key := m.Key
	s.deleteLocked(key)
	return key, true
}

func (s *Store[V]) deleteLocked(key string) bool {
	el, ok := s.items[key]
	if !ok {
		return false
	}
	delete(s.items, key)
	s.order.Remove(el)
	return true
}
