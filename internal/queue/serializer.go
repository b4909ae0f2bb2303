// Package queue provides a FIFO call serializer: at most one task runs at a
// time, in enqueue order, regardless of caller concurrency. It exists to keep
// a burst of concurrent requests from hammering an upstream provider with
// parallel calls.
package queue

import (
	"context"
	"sync"
)

// Serializer chains tasks so that task N+1 never starts before task N has
// finished, success or failure. A failed task only fails its own caller; the
// queue keeps draining. The serializer imposes no timeout of its own — a
// hung task stalls everything queued behind it, so callers bound their tasks
// with context deadlines.
type Serializer struct {
	mu   sync.Mutex
	tail chan struct{}
}

// NewSerializer creates an empty serializer ready to accept tasks.
func NewSerializer() *Serializer {
	done := make(chan struct{})
	close(done)
	return &Serializer{tail: done}
}

// Do enqueues task and blocks until it has run and produced a result.
// The tail swap happens synchronously under the lock, so two goroutines
// enqueueing at the same instant still chain in a deterministic order.
//
// A task whose context is already canceled when its turn arrives fails fast
// without running, but it still waits for its turn first: cancellation never
// reorders the queue.
func Do[T any](ctx context.Context, s *Serializer, task func(ctx context.Context) (T, error)) (T, error) {
	s.mu.Lock()
	prev := s.tail
	done := make(chan struct{})
	s.tail = done
	s.mu.Unlock()
	defer close(done)

	<-prev

	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	return task(ctx)
}
