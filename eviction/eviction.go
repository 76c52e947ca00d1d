package eviction

import "github.com/krisalay/jobcache/types"

/*
This file defines how the store decides what to remove when it runs out of space.
*/

/*
Policy is the interface that all eviction strategies must follow.

A policy does not keep its own bookkeeping. It scores the metadata the store
already keeps for every entry, and the store evicts the entry with the lowest
score (see MinBy). Returning ok=false means "no score": such an entry is only
chosen when no entry has a score.
*/
type Policy interface {
	Score(m *types.Meta) (score int64, ok bool)
}

// PolicyType is a simple identifier for supported eviction strategies.
type PolicyType string

const (
	// LRU (Least Recently Used): evicts the entry with the oldest recency score,
	// i.e. the one written or read longest ago.
	LRU PolicyType = "LRU"

	// LFU (Least Frequently Used): evicts the entry with the fewest fresh hits.
	LFU PolicyType = "LFU"

	// FIFO (First In First Out): evicts the key that was first written earliest,
	// regardless of reads and re-runs.
	FIFO PolicyType = "FIFO"
)

// NewEvictionPolicy is a small factory function.
// Given a PolicyType, it creates the correct eviction policy.
// The empty PolicyType selects LRU.
func NewEvictionPolicy(t PolicyType) Policy {
	switch t {
	case LRU, "":
		return lru{}
	case LFU:
		return lfu{}
	case FIFO:
		return fifo{}
	default:
		panic("unknown eviction policy")
	}
}
