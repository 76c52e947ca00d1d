// This file implements LFU eviction.

package eviction

import "github.com/krisalay/jobcache/types"

// lfu scores an entry by how many fresh hits it served.
// If several entries share the lowest count, the oldest key in store order goes first.
type lfu struct{}

func (lfu) Score(m *types.Meta) (int64, bool) {
	return m.Hits, true
}
