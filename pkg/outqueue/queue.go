package outqueue

import (
	"sync"
)

// Queue is a bounded FIFO buffer of values of type T.
// Multiple goroutines may Enqueue concurrently; dequeue order follows the
// order in which enqueues were accepted.
type Queue[T any] struct {
	ch     chan T
	closed bool
	mu     sync.RWMutex
}

// New creates a queue with the given capacity.
// A minimum capacity of 1 is enforced; a zero-capacity channel would make
// every accepted enqueue depend on a concurrent dequeue and defeat the
// non-blocking design.
func New[T any](capacity int) *Queue[T] {
	return &Queue[T]{
		ch: make(chan T, max(capacity, 1)),
	}
}

// Enqueue offers a value to the queue without blocking.
// It returns false when the queue is at capacity or already closed; the
// producer decides whether to drop, report, or retry. It never grows the
// queue past its capacity.
func (q *Queue[T]) Enqueue(v T) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// TryDequeue pops the oldest entry without blocking.
// The second return value reports whether an entry was present.
func (q *Queue[T]) TryDequeue() (T, bool) {
	select {
	case v, ok := <-q.ch:
		if !ok {
			var zero T
			return zero, false
		}
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Len returns the number of buffered entries.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return cap(q.ch)
}

// Close releases all buffered entries and rejects further enqueues.
// It is safe to call multiple times. TryDequeue returns nothing after Close.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true

	// No producer can hold the send path here (they need the read lock),
	// so closing and draining the channel is race-free.
	close(q.ch)
	for range q.ch {
	}
}
