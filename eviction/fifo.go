// This file implements FIFO eviction.

package eviction

import "github.com/krisalay/jobcache/types"

// fifo scores an entry by when its key was first written.
// Re-runs and reads do not move it; FIFO only cares about the first insertion.
type fifo struct{}

func (fifo) Score(m *types.Meta) (int64, bool) {
	if m.CreatedAt.IsZero() {
		return 0, false
	}
	return m.CreatedAt.UnixNano(), true
}
