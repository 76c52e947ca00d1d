package api

import (
	"context"

	"github.com/krisalay/jobcache/future"
	"github.com/krisalay/jobcache/types"
)

/*
Cache defines the PUBLIC API of the job cache.
This is a contract that guarantees certain behaviors, without exposing internals.
Queueing, rate limiting, dedup, eviction and staleness are all hidden behind it.
*/
type Cache[V any] interface {

	/*
		Add registers a job under job.Key.

		BEHAVIOR:
		---------
		- If a job for the key is queued or running: do nothing
		- Otherwise: queue the job; the drain loop runs it when the rate limit allows
		- On success the result is cached with the job's cooldown
		- On failure nothing is cached; the error goes to the failure reporter

		Add does NOT look at the cached result. Adding a key whose result is
		still fresh queues a refresh.
	*/
	Add(job types.Job[V]) error

	/*
		Get returns the cached result for key.

		BEHAVIOR:
		---------
		1. Result present and within its cooldown: return it (hit) and mark it recently used
		2. Result present but past its cooldown: report absent; the entry stays stored
		3. No result: report absent

		Get never blocks and never queues a job.
	*/
	Get(key string) (V, bool)

	/*
		GetAll returns every stored result, ignoring cooldowns.
		Callers that need freshness must use Get.
	*/
	GetAll() map[string]V

	/*
		GetWait returns a future for key:
		- the fresh result, already settled
		- or the running job's future
		- or nothing
	*/
	GetWait(key string) (*future.Future[V], bool)

	/*
		Load returns the fresh result, or adds job and waits for its result.
	*/
	Load(ctx context.Context, job types.Job[V]) (V, error)

	/*
		Abandon forgets a running job so the key can be scheduled again.
		The action itself keeps running; its result is discarded.
	*/
	Abandon(key string) bool

	/*
		Close gracefully shuts down the cache.

		BEHAVIOR:
		---------
		- Stops the drain loop and drops queued jobs
		- Cancels the context handed to actions
		- Waits for running actions to return
		- Flushes the failure reporter
	*/
	Close() error
}
