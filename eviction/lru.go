// This file implements LRU eviction.

package eviction

import "github.com/krisalay/jobcache/types"

// lru scores an entry by its recency: the last write or fresh read.
// An entry that was never touched has no score.
type lru struct{}

func (lru) Score(m *types.Meta) (int64, bool) {
	if m.LastAccessedAt.IsZero() {
		return 0, false
	}
	return m.LastAccessedAt.UnixNano(), true
}
