// Package outqueue provides a bounded FIFO queue for outbound messages,
// decoupling concurrent producers from a single consumer.
//
// The queue is the hand-off point between business-logic callbacks, which may
// run on many goroutines, and a session's drain loop, which pops one entry at
// a time. Capacity is a hard cap: a full queue refuses new entries instead of
// growing, so a stalled consumer cannot cause unbounded memory growth per
// connection.
//
// Basic usage:
//
//	q := outqueue.New[[]byte](1024)
//	defer q.Close()
//
//	if !q.Enqueue(payload) {
//		// queue full or closed; caller decides whether to drop or retry
//	}
//
//	if msg, ok := q.TryDequeue(); ok {
//		// deliver msg
//	}
//
// Enqueue is safe for concurrent use by multiple producers. TryDequeue is
// intended for a single consumer.
package outqueue
