// Package queue is the bounded in-memory job queue behind batch evaluation.
package queue

import (
	"context"
	"sync"

	"github.com/okian/ptt/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Job is one profile file waiting to be evaluated. Index is the file's
// position on the command line so results can be put back in order.
type Job struct {
	ID    string
	Index int
	Path  string
}

// Queue provides enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue blocks until the job is buffered, ctx is done, or the queue closes.
	Enqueue(ctx context.Context, job Job) error

	// TryEnqueue buffers the job or fails with ErrFull without blocking.
	TryEnqueue(job Job) error

	// Dequeue returns a channel that yields jobs until the queue is closed
	// and drained or ctx is done.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the current number of queued jobs.
	Len() int

	// Close stops accepting jobs. Buffered jobs are still delivered.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan Job
	capacity int
	metrics  *metrics.Manager

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
		metrics:  metrics.Global(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)
	q.metrics.UpdateBatchQueueSize(0)
	return q
}

// Enqueue adds a job, waiting for room if the queue is full.
func (q *InMemoryQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}

	select {
	case q.jobs <- job:
		q.metrics.UpdateBatchQueueSize(len(q.jobs))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryEnqueue adds a job only if there is room right now.
func (q *InMemoryQueue) TryEnqueue(job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}

	select {
	case q.jobs <- job:
		q.metrics.UpdateBatchQueueSize(len(q.jobs))
		return nil
	default:
		return ErrFull
	}
}

// Dequeue returns a channel that will receive jobs as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-q.jobs:
				if !ok {
					return
				}
				q.metrics.UpdateBatchQueueSize(len(q.jobs))
				select {
				case out <- job:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len() int {
	return len(q.jobs)
}

// Close stops accepting new jobs.
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

