// This file defines when a cached result stops being fresh.

package expiration

import (
	"time"

	"github.com/krisalay/jobcache/types"
)

/*
Strategy is the interface that all staleness rules must follow. Instead of
hard-coding the cooldown check into the store, we define a strategy so the
rule can be swapped easily.

A stale entry is not removed. The store reports it absent on Get and keeps it
until it is overwritten or evicted.
*/
type Strategy interface {

	// IsElapsed reports whether the entry is stale at now.
	IsElapsed(m *types.Meta, now time.Time) bool
}

/*
Cooldown is the default strategy: a result is stale once more than its
cooldown has passed since the run that produced it.

Default applies to entries written without a cooldown of their own.
Default <= 0 means such entries never go stale.
*/
type Cooldown struct {
	Default time.Duration
}

// IsElapsed checks whether the entry is stale at this moment.
func (c Cooldown) IsElapsed(m *types.Meta, now time.Time) bool {
	cd := m.Cooldown
	if cd <= 0 {
		cd = c.Default
	}
	return cd > 0 && now.Sub(m.LastRunAt) > cd
}
