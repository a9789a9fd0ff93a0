// Package queue carries completed assessment results from sessions to the
// result store.
//
// Enqueue never blocks: a full or closed queue rejects the result and the
// caller decides whether to retry.
package queue

import (
	"context"
	"sync"

	"github.com/okian/vitalis/internal/domain/model"
	"github.com/okian/vitalis/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Queue provides non-blocking enqueue and blocking dequeue.
type Queue interface {
	// Enqueue adds a result. It returns false if the queue is full or closed.
	Enqueue(ctx context.Context, r model.Result) bool

	// Next blocks until a result is available. It returns ErrClosed once the
	// queue is closed and drained, or ctx.Err() if ctx ends first.
	Next(ctx context.Context) (model.Result, error)

	Len() int
	Cap() int

	// Close stops accepting results. Queued results can still be drained.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue with a buffered channel.
type InMemoryQueue struct {
	results  chan model.Result
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.results = make(chan model.Result, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0, q.capacity)
	return q
}

// Enqueue adds a result without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r model.Result) bool { //nolint:gocritic // results travel by value
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.reject("closed")
		return false
	}
	if ctx.Err() != nil {
		q.reject("context_cancelled")
		return false
	}

	select {
	case q.results <- r:
		metrics.RecordEnqueue()
		metrics.UpdateQueueSize(len(q.results), q.capacity)
		return true
	default:
		q.reject("queue_full")
		return false
	}
}

func (q *InMemoryQueue) reject(reason string) {
	metrics.RecordEnqueueError()
	metrics.RecordErrorByComponent("queue", reason)
}

// Next returns the oldest queued result.
func (q *InMemoryQueue) Next(ctx context.Context) (model.Result, error) {
	select {
	case r, ok := <-q.results:
		if !ok {
			return model.Result{}, ErrClosed
		}
		metrics.RecordDequeue()
		metrics.UpdateQueueSize(len(q.results), q.capacity)
		return r, nil
	case <-ctx.Done():
		return model.Result{}, ctx.Err()
	}
}

// Len returns the number of queued results.
func (q *InMemoryQueue) Len() int { return len(q.results) }

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close gracefully shuts down the queue. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.results)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
