package registry

import (
	"sync"

	"github.com/krisalay/jobcache/future"
)

/*
This file defines the dedup gate: the set of keys whose job is running right now.

A key is registered immediately before its action starts and cleared when the
action settles, success or failure. While registered, Add for that key is a no-op
and GetWait hands out the registered future.
*/

// DefaultShards is used when New is given n <= 0.
const DefaultShards = 16

type shard[V any] struct {
	mu      sync.Mutex
	running map[string]*future.Future[V]
}

// Registry tracks in-flight jobs. Each shard has its own lock.
type Registry[V any] struct {
	shards   []*shard[V]
	selector Selector
}

func New[V any](n int) *Registry[V] {
	if n <= 0 {
		n = DefaultShards
	}
	s := make([]*shard[V], n)
	for i := range s {
		s[i] = &shard[V]{running: make(map[string]*future.Future[V])}
	}
	return &Registry[V]{shards: s, selector: HashSelector{}}
}

func (r *Registry[V]) shardFor(key string) *shard[V] {
	return r.shards[r.selector.Select(key, len(r.shards))]
}

// IsActive reports whether a job for key is running.
func (r *Registry[V]) IsActive(key string) bool {
	sh := r.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, ok := sh.running[key]
	return ok
}

// Register records f as the running execution of key.
// It does not check for an existing entry; callers check IsActive first.
func (r *Registry[V]) Register(key string, f *future.Future[V]) {
	sh := r.shardFor(key)
	sh.mu.Lock()
	sh.running[key] = f
	sh.mu.Unlock()
}

// Clear removes key if f is still its registered execution.
// An execution that was abandoned and replaced cannot clear its successor.
func (r *Registry[V]) Clear(key string, f *future.Future[V]) bool {
	return r.Settle(key, f, nil)
}

/*
Settle is Clear with a commit step: if f is still the registered execution of
key, fn (may be nil) runs under the shard lock before key is removed. This is
how a finished job writes its result without racing Abandon.
fn must not call back into the Registry.
*/
func (r *Registry[V]) Settle(key string, f *future.Future[V], fn func()) bool {
	sh := r.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if cur, ok := sh.running[key]; !ok || cur != f {
		return false
	}
	if fn != nil {
		fn()
	}
	delete(sh.running, key)
	return true
}

// Peek returns the running execution of key, if any.
func (r *Registry[V]) Peek(key string) (*future.Future[V], bool) {
	sh := r.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	f, ok := sh.running[key]
	return f, ok
}

// Abandon removes key unconditionally and returns the execution it dropped.
// The action keeps running; the key just becomes schedulable again.
func (r *Registry[V]) Abandon(key string) (*future.Future[V], bool) {
	sh := r.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	f, ok := sh.running[key]
	if ok {
		delete(sh.running, key)
	}
	return f, ok
}

// Len returns how many jobs are running.
func (r *Registry[V]) Len() int {
	n := 0
	for _, sh := range r.shards {
		sh.mu.Lock()
		n += len(sh.running)
		sh.mu.Unlock()
	}
	return n
}
