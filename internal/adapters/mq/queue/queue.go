// Package queue buffers submitted analysis jobs between the API and the
// worker pool.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/shotform/internal/domain/model"
	"github.com/okian/shotform/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job without blocking. It returns ErrFull when the
	// queue is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, j model.Job) error

	// Dequeue returns a channel that yields jobs until the queue is closed
	// and drained, or ctx is done.
	Dequeue(ctx context.Context) <-chan model.Job

	Len(ctx context.Context) int
	Capacity() int

	// Close stops accepting jobs. Already queued jobs are still delivered.
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan model.Job
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
	q.jobs = make(chan model.Job, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0)

	return q
}

// Enqueue adds a job to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j model.Job) error { //nolint:gocritic // hugeParam: jobs travel by value over the channel
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.reject("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		q.reject("context_cancelled")
		return fmt.Errorf("enqueue %s: %w", j.AnalysisID, err)
	}

	select {
	case q.jobs <- j:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		q.reject("queue_full")
		return fmt.Errorf("%w: capacity %d", ErrFull, q.capacity)
	}
}

// Dequeue returns a channel that will receive jobs as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan model.Job {
	out := make(chan model.Job)
	go func() {
		defer close(out)
		for {
			select {
			case j, ok := <-q.jobs:
				if !ok {
					return
				}
				select {
				case out <- j:
					metrics.RecordQueueDequeue()
					q.observe()
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return q.observe()
}

// Capacity returns the maximum number of queued jobs.
func (q *InMemoryQueue) Capacity() int {
	return q.capacity
}

// Close stops accepting jobs. Calling it twice is a no-op.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) observe() int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
	return size
}

func (q *InMemoryQueue) reject(reason string) {
	metrics.RecordQueueEnqueueError()
	metrics.RecordErrorByComponent("queue", reason)
}
