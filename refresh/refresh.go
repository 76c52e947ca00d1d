// This file defines the idea of a "refresh hook".
// The hook lets the owner react WHEN a read finds a result whose cooldown has elapsed.

package refresh

import "github.com/krisalay/jobcache/types"

/*
Hook is the interface for refresh behavior.
If a refresh hook is configured, it is called every time Get finds a stale entry.

This gives the owner a chance to:
- Re-add the job so a fresh result is produced
- Log which keys go stale without being refreshed

The cache itself does NOT care what the hook does.
It just calls OnStale and reports the key as absent.
*/
type Hook interface {

	/*
		OnStale is called after Get found an elapsed entry.
		This method MUST be fast and non blocking because it runs on the read path.
		It may call back into the cache (for example Add); no cache lock is held.
	*/
	OnStale(key string, meta types.Meta)
}

// HookFunc adapts a function to Hook.
type HookFunc func(key string, meta types.Meta)

func (f HookFunc) OnStale(key string, meta types.Meta) { f(key, meta) }
