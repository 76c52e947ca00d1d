package jobcache

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/krisalay/jobcache/api"
	"github.com/krisalay/jobcache/engine"
	"github.com/krisalay/jobcache/eviction"
	"github.com/krisalay/jobcache/future"
	"github.com/krisalay/jobcache/queue"
	"github.com/krisalay/jobcache/registry"
	"github.com/krisalay/jobcache/store"
	"github.com/krisalay/jobcache/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

/*
Cache is the job cache.
This struct is the orchestrator that connects:
- the store (completed results, eviction)
- the registry (running jobs, the dedup gate)
- the scheduler (queued jobs, rate limiting)
- the engine (staleness, refresh, failure reporting, metrics)

No component points into another; every cross-component step happens here.
*/
type Cache[V any] struct {
	store    *store.Store[V]
	registry *registry.Registry[V]
	sched    *queue.Scheduler[*task[V]]
	engine   *engine.CacheEngine

	// sf collapses concurrent Load calls for the same key into one submit-and-wait.
	sf singleflight.Group

	// jobs tracks running actions so Close can wait for them.
	jobs errgroup.Group

	// ctx is handed to every action and cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

// task is a queued job plus the future its run will settle.
type task[V any] struct {
	job types.Job[V]
	fut *future.Future[V]
}

func New[V any](cfg Config) *Cache[V] {
	cfg = cfg.normalized()
	ctx, cancel := context.WithCancel(context.Background())

	c := &Cache[V]{
		store: store.New[V](
			cfg.MaxCacheSize,
			eviction.NewEvictionPolicy(cfg.Eviction),
			cfg.Engine.Expiration,
		),
		registry: registry.New[V](cfg.RegistryShards),
		engine:   cfg.Engine,
		ctx:      ctx,
		cancel:   cancel,
	}
	if cfg.MaxConcurrency > 0 {
		c.jobs.SetLimit(cfg.MaxConcurrency)
	}

	c.sched = queue.NewScheduler[*task[V]](queue.Config{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Order:             cfg.QueueOrder,
	}, queue.HandlerFunc[*task[V]](c.dispatch))

	return c
}

/*
Add registers a job.

It is a no-op when a job for the same key is queued or running. It does not
look at the cached result: adding a key whose result is still fresh queues a
refresh. Add never reports the outcome of any action; it only fails for a nil
action or a closed cache.
*/
func (c *Cache[V]) Add(job types.Job[V]) error {
	_, err := c.submit(job)
	return err
}

// submit queues job unless its key is already queued or running, and returns
// the future that will carry the key's next result.
func (c *Cache[V]) submit(job types.Job[V]) (*future.Future[V], error) {
	if job.Action == nil {
		return nil, ErrNilAction
	}
	if c.closed.Load() {
		return nil, ErrClosed
	}

	var running *future.Future[V]
	t := &task[V]{job: job, fut: future.New[V]()}

	queued, ok := c.sched.Enqueue(job.Key, t, func(key string) bool {
		f, active := c.registry.Peek(key)
		running = f
		return !active
	})
	switch {
	case ok:
		return queued.fut, nil
	case running != nil:
		return running, nil
	default:
		return nil, ErrClosed
	}
}

// dispatch runs under the scheduler lock: the key becomes active here,
// before it leaves the lock, so no Add can slip in between.
func (c *Cache[V]) dispatch(key string, t *task[V]) func() {
	c.registry.Register(key, t.fut)
	c.engine.Metrics.Dispatch()

	return func() {
		c.jobs.Go(func() error {
			c.run(key, t)
			return nil
		})
	}
}

func (c *Cache[V]) run(key string, t *task[V]) {
	v, err := c.invoke(t.job.Action)
	if err != nil {
		err = &ActionError{Key: key, Err: err}
		c.engine.OnFailure(c.ctx, key, err)
		c.registry.Clear(key, t.fut)
		t.fut.Reject(err)
		return
	}

	c.registry.Settle(key, t.fut, func() {
		if _, evicted := c.store.Put(key, v, t.job.Cooldown, c.engine.Now()); evicted {
			c.engine.Metrics.Eviction()
		}
	})
	t.fut.Resolve(v)
}

// invoke calls the action, turning a panic into an error.
func (c *Cache[V]) invoke(action types.Action[V]) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return action(c.ctx)
}

/*
Get returns the fresh result for key.

A result whose cooldown has elapsed is reported absent but stays in the cache
until it is overwritten or evicted. A hit refreshes the result's recency.
Get never blocks on a running job.
*/
func (c *Cache[V]) Get(key string) (V, bool) {
	v, st := c.store.Get(key, c.engine.Now())

	switch st {
	case store.Hit:
		c.engine.Metrics.Hit()
		return v, true
	case store.Stale:
		if e, ok := c.store.Peek(key); ok {
			c.engine.OnStale(key, e.Meta)
		}
	default:
		c.engine.Metrics.Miss()
	}

	var zero V
	return zero, false
}

// GetAll returns every resident result, stale ones included.
func (c *Cache[V]) GetAll() map[string]V {
	return c.store.All()
}

/*
GetWait returns something to wait on for key:

  - the fresh result, as an already settled future
  - otherwise the running job's future
  - otherwise nothing (a queued job that has not started does not count)

It never queues a job.
*/
func (c *Cache[V]) GetWait(key string) (*future.Future[V], bool) {
	if v, ok := c.Get(key); ok {
		return future.Resolved(v), true
	}
	return c.registry.Peek(key)
}

// Wait is GetWait followed by waiting on the future.
// It returns ErrNotFound when there is nothing to wait on.
func (c *Cache[V]) Wait(ctx context.Context, key string) (V, error) {
	f, ok := c.GetWait(key)
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return f.Wait(ctx)
}

/*
Load is a read-through Get: it returns the fresh result for job.Key, or adds
job and waits for the key's next result. If a job for the key is already queued
or running, Load waits for that one instead. Concurrent Loads of the same key
share one submit-and-wait, but each returns early when its own ctx is done.
*/
func (c *Cache[V]) Load(ctx context.Context, job types.Job[V]) (V, error) {
	if v, ok := c.Get(job.Key); ok {
		return v, nil
	}

	// The shared wait is bound to the cache, not to whichever caller got
	// there first; each caller gives up on its own ctx.
	ch := c.sf.DoChan(job.Key, func() (any, error) {
		f, err := c.submit(job)
		if err != nil {
			return nil, err
		}
		v, err := f.Wait(c.ctx)
		if err != nil && err == c.ctx.Err() {
			err = ErrClosed
		}
		return v, err
	})

	var zero V
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(V)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

/*
Abandon forgets the running job for key, so the key can be added again.

Actions cannot be interrupted: the abandoned action keeps running, but its
result is discarded and its waiters get ErrAbandoned. Without Abandon, an
action that never returns keeps its key active forever.
*/
func (c *Cache[V]) Abandon(key string) bool {
	f, ok := c.registry.Abandon(key)
	if ok {
		f.Reject(&ActionError{Key: key, Err: ErrAbandoned})
	}
	return ok
}

// Cancel removes a queued job that has not been dispatched.
func (c *Cache[V]) Cancel(key string) bool {
	t, ok := c.sched.Cancel(key)
	if ok {
		t.fut.Reject(ErrCancelled)
	}
	return ok
}

// Remove deletes the cached result for key. Queued and running jobs are not affected.
func (c *Cache[V]) Remove(key string) bool {
	return c.store.Delete(key)
}

// Inspect returns the stored entry for key without touching its recency.
func (c *Cache[V]) Inspect(key string) (types.Entry[V], bool) {
	return c.store.Peek(key)
}

// Len returns the number of resident results, stale ones included.
func (c *Cache[V]) Len() int { return c.store.Len() }

// Keys returns resident keys in the order they were first stored.
func (c *Cache[V]) Keys() []string { return c.store.Keys() }

// Pending returns the number of queued jobs.
func (c *Cache[V]) Pending() int { return c.sched.Len() }

// Running returns the number of running jobs.
func (c *Cache[V]) Running() int { return c.registry.Len() }

/*
Close shuts the cache down.
------------------
1. Cancel the context handed to actions
2. Stop the drain loop; queued jobs are dropped and their waiters get ErrClosed
3. Wait for running actions to return
4. Close the engine (flushes the failure reporter)

Results stay readable after Close. Close is safe to call multiple times.
*/
func (c *Cache[V]) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	// Cancel first: with MaxConcurrency set, the drain loop may be waiting
	// for a slot that only frees up once actions see ctx done.
	c.cancel()
	for _, t := range c.sched.Stop() {
		t.fut.Reject(ErrClosed)
	}

	err := c.jobs.Wait()
	c.engine.Close()
	return err
}

var _ api.Cache[any] = (*Cache[any])(nil)
