// Package future holds the handle callers use to wait on a running job.
package future

import (
	"context"
	"sync"
)

// Future is the outcome of one job run. It settles exactly once.
type Future[V any] struct {
	once  sync.Once
	done  chan struct{}
	value V
	err   error
}

func New[V any]() *Future[V] {
	return &Future[V]{done: make(chan struct{})}
}

// Resolved returns a future that already holds v.
func Resolved[V any](v V) *Future[V] {
	f := New[V]()
	f.Resolve(v)
	return f
}

// Resolve settles the future with v. Later calls to Resolve or Reject are ignored.
func (f *Future[V]) Resolve(v V) bool {
	return f.settle(v, nil)
}

// Reject settles the future with err.
func (f *Future[V]) Reject(err error) bool {
	var zero V
	return f.settle(zero, err)
}

func (f *Future[V]) settle(v V, err error) bool {
	settled := false
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
		settled = true
	})
	return settled
}

// Done is closed once the future settles.
func (f *Future[V]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is done.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// Result returns the outcome without blocking. ok is false while the job is still running.
func (f *Future[V]) Result() (v V, err error, ok bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		return v, nil, false
	}
}
