package types

import (
	"context"
	"time"
)

/*
Action is the producer function registered under a key.

The cache calls it when the job is dispatched by the drain loop. It runs on its
own goroutine, so a slow action never holds up the queue.
  - ctx is cancelled when the cache is closed
  - a returned error (or a panic) is an action failure: nothing is cached
*/
type Action[V any] func(ctx context.Context) (V, error)

// Job is a key plus the action producing its result.
type Job[V any] struct {
	Key    string
	Action Action[V]

	// Cooldown is how long a completed result stays fresh for Get.
	// Cooldown <= 0 means the result never goes stale on its own.
	Cooldown time.Duration
}
