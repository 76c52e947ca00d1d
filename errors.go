package jobcache

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by Add and friends after Close, and by waiters on
	// jobs that were still queued when the cache closed.
	ErrClosed = errors.New("jobcache: cache is closed")

	// ErrNilAction is returned by Add for a job without an action.
	ErrNilAction = errors.New("jobcache: job has no action")

	// ErrNotFound is returned by Wait when the key has no fresh result and no running job.
	ErrNotFound = errors.New("jobcache: no result or running job for key")

	// ErrAbandoned is delivered to waiters of a run removed with Abandon.
	ErrAbandoned = errors.New("jobcache: job abandoned")

	// ErrCancelled is delivered to waiters of a queued job removed with Cancel.
	ErrCancelled = errors.New("jobcache: job cancelled before dispatch")

	// ErrPanic wraps a panic raised by an action.
	ErrPanic = errors.New("jobcache: action panicked")
)

// ActionError is an action failure: the action returned an error or panicked.
// It is never returned by Add; it reaches the Reporter and anyone waiting on the run.
type ActionError struct {
	Key string
	Err error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("jobcache: job %q failed: %v", e.Key, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }
