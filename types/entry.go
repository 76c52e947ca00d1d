package types

import "time"

// Meta is the bookkeeping kept for every cached result.
// Eviction policies and expiration strategies only ever look at Meta.
type Meta struct {
	Key string

	// CreatedAt is when the key was first written. Overwrites keep it.
	CreatedAt time.Time

	// LastRunAt is when the latest successful run completed.
	LastRunAt time.Time

	// LastAccessedAt is the recency score: last write or last fresh hit.
	LastAccessedAt time.Time

	Cooldown time.Duration // zero => never stale
	Hits     int64
}

// Entry is one resident result.
type Entry[V any] struct {
	Meta
	Value V
}
