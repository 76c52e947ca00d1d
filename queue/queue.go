package queue

import "container/list"

// Order decides which queued job the drain loop takes next.
type Order int

const (
	// LIFO takes the most recently queued key first. This is the default.
	LIFO Order = iota

	// FIFO takes keys in arrival order.
	FIFO
)

func (o Order) String() string {
	if o == FIFO {
		return "FIFO"
	}
	return "LIFO"
}

type item[T any] struct {
	key string
	job T
}

/*
Queue holds jobs that were added but not started yet.

It is an insertion-ordered map: a key appears at most once, and pushing a key
that is already queued replaces its job but keeps its place in line.
Queue is not safe for concurrent use; the Scheduler guards it.
*/
type Queue[T any] struct {
	items map[string]*list.Element
	order *list.List // oldest at the front
}

func New[T any]() *Queue[T] {
	return &Queue[T]{
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

// Push queues job under key. It reports whether key was new.
func (q *Queue[T]) Push(key string, job T) bool {
	if el, ok := q.items[key]; ok {
		el.Value.(*item[T]).job = job
		return false
	}
	q.items[key] = q.order.PushBack(&item[T]{key: key, job: job})
	return true
}

// Pop removes and returns the next job according to o.
func (q *Queue[T]) Pop(o Order) (string, T, bool) {
	el := q.order.Back()
	if o == FIFO {
		el = q.order.Front()
	}
	if el == nil {
		var zero T
		return "", zero, false
	}

	it := el.Value.(*item[T])
	q.order.Remove(el)
	delete(q.items, it.key)
	return it.key, it.job, true
}

// Peek returns the job queued under key.
func (q *Queue[T]) Peek(key string) (T, bool) {
	el, ok := q.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	return el.Value.(*item[T]).job, true
}

// Remove drops key from the queue and returns its job.
func (q *Queue[T]) Remove(key string) (T, bool) {
	el, ok := q.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	q.order.Remove(el)
	delete(q.items, key)
	return el.Value.(*item[T]).job, true
}

func (q *Queue[T]) Contains(key string) bool {
	_, ok := q.items[key]
	return ok
}

func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Drain empties the queue and returns the dropped jobs, oldest first.
func (q *Queue[T]) Drain() []T {
	out := make([]T, 0, len(q.items))
	for el := q.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*item[T]).job)
	}
	q.items = make(map[string]*list.Element)
	q.order.Init()
	return out
}
