package report

import (
	"context"
	"sync"
)

// failure is one pending report.
type failure struct {
	ctx context.Context
	key string
	err error
}

/*
AsyncReporter queues failures and forwards them to another Reporter from one
background worker, so a slow sink never holds up job completion.
*/
type AsyncReporter struct {
	next Reporter

	// ch holds pending reports. When it is full new reports are dropped.
	ch chan failure

	mu      sync.Mutex
	closed  bool
	dropped int

	wg sync.WaitGroup
}

// NewAsyncReporter starts the worker. buffer <= 0 means 1.
func NewAsyncReporter(next Reporter, buffer int) *AsyncReporter {
	if buffer <= 0 {
		buffer = 1
	}
	r := &AsyncReporter{
		next: next,
		ch:   make(chan failure, buffer),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Report queues the failure. It never blocks: under pressure the report is dropped.
func (r *AsyncReporter) Report(ctx context.Context, key string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		r.dropped++
		return
	}

	select {
	case r.ch <- failure{ctx, key, err}:
	default:
		r.dropped++
	}
}

// Dropped returns how many reports were discarded.
func (r *AsyncReporter) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

func (r *AsyncReporter) worker() {
	defer r.wg.Done()

	for f := range r.ch {
		r.next.Report(f.ctx, f.key, f.err)
	}
}

/*
Close stops accepting reports, waits for the worker to forward what is
queued, then closes the wrapped reporter. Safe to call multiple times.
*/
func (r *AsyncReporter) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.ch)
	r.mu.Unlock()

	r.wg.Wait()
	r.next.Close()
}
