package queue

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

/*
This file implements the drain loop.

The scheduler is either Idle (no loop goroutine) or Draining (exactly one loop
goroutine). Enqueue starts the loop when Idle; the loop goes back to Idle by
itself once the queue is empty. Each iteration waits for the rate limiter,
takes ONE job and dispatches it, so dispatches are strictly one at a time.
The loop never waits for a dispatched job to finish.
*/

// Handler receives dequeued jobs.
type Handler[T any] interface {

	/*
		Dispatch is called with the queue locked, right after key was dequeued.
		It must not block: this is where the job is marked as running so that a
		concurrent Enqueue for the same key sees it. The returned func, if any,
		runs after the lock is released.
	*/
	Dispatch(key string, job T) func()
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[T any] func(key string, job T) func()

func (f HandlerFunc[T]) Dispatch(key string, job T) func() { return f(key, job) }

// Config controls the drain loop.
type Config struct {
	// RequestsPerSecond caps dispatches per second. <= 0 means unthrottled.
	RequestsPerSecond float64

	// Order picks the next queued job. The zero value is LIFO.
	Order Order
}

// Scheduler owns the queue and its drain loop.
type Scheduler[T any] struct {
	mu       sync.Mutex
	queue    *Queue[T]
	order    Order
	limiter  *rate.Limiter
	handler  Handler[T]
	draining bool
	stopped  bool

	// Goroutine ownership.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler[T any](cfg Config, h Handler[T]) *Scheduler[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler[T]{
		queue:   New[T](),
		order:   cfg.Order,
		limiter: newLimiter(cfg.RequestsPerSecond),
		handler: h,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// newLimiter turns requests per second into a limiter with burst 1, so
// consecutive dispatches are spaced 1/rps apart.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

/*
Enqueue queues job under key and returns the job now queued for key.

If key is already queued nothing changes and the queued job is returned.
Otherwise admit (may be nil) decides; it runs under the queue lock, the same
lock Dispatch runs under, so "is it running?" and "queue it" happen as one step.
ok is false when the scheduler is stopped or admit rejected key.
*/
func (s *Scheduler[T]) Enqueue(key string, job T, admit func(key string) bool) (queued T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return queued, false
	}
	if existing, found := s.queue.Peek(key); found {
		return existing, true
	}
	if admit != nil && !admit(key) {
		return queued, false
	}

	s.queue.Push(key, job)

	if !s.draining {
		s.draining = true
		s.wg.Add(1)
		go s.loop()
	}
	return job, true
}

// Cancel removes a job that has not been dispatched yet and returns it.
func (s *Scheduler[T]) Cancel(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Remove(key)
}

// Len returns the number of queued jobs.
func (s *Scheduler[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// isDraining reports whether the drain loop is active.
func (s *Scheduler[T]) isDraining() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draining
}

/*
Stop halts the drain loop and drops every queued job.
It returns the dropped jobs. Jobs already dispatched are not affected.

Stop is safe to call multiple times.
*/
func (s *Scheduler[T]) Stop() []T {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	dropped := s.queue.Drain()
	s.mu.Unlock()

	// Cancel outside the lock so a loop blocked in the limiter can exit.
	s.cancel()
	s.wg.Wait()
	return dropped
}

func (s *Scheduler[T]) loop() {
	defer s.wg.Done()

	for {
		if !s.pending() {
			return
		}

		if err := s.limiter.Wait(s.ctx); err != nil {
			s.idle()
			return
		}

		if run := s.step(); run != nil {
			run()
		}
	}
}

// pending checks for work and switches to Idle when there is none.
func (s *Scheduler[T]) pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped || s.queue.Len() == 0 {
		s.draining = false
		return false
	}
	return true
}

func (s *Scheduler[T]) idle() {
	s.mu.Lock()
	s.draining = false
	s.mu.Unlock()
}

// step dequeues one job and claims it under the lock.
func (s *Scheduler[T]) step() func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	key, job, ok := s.queue.Pop(s.order)
	if !ok {
		return nil
	}
	return s.handler.Dispatch(key, job)
}
