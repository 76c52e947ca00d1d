package registry

import "github.com/cespare/xxhash/v2"

/*
This file decides HOW a job key is assigned to a registry shard.
If every key went to the same shard, its lock would become a bottleneck
for every Add and every job completion.
*/

// Selector decides which shard index handles a given key.
type Selector interface {
	Select(key string, n int) int
}

// HashSelector spreads keys with xxhash, a fast non-cryptographic hash.
type HashSelector struct{}

func (HashSelector) Select(key string, n int) int {
	return int(xxhash.Sum64String(key) % uint64(n))
}
