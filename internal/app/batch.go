package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	eventqueue "github.com/okian/ptt/internal/adapters/mq/queue"
	workerpool "github.com/okian/ptt/internal/adapters/mq/worker"
	"github.com/okian/ptt/internal/domain/types"
	"github.com/okian/ptt/pkg/logger"
)

const batchShutdownTimeout = 5 * time.Second

// BatchResult is the outcome for one input file.
type BatchResult struct {
	Path   string
	Report *types.Report
	Err    error
}

// Batch evaluates every path on the worker pool. Results come back in the
// order of paths regardless of completion order.
func (s *Service) Batch(ctx context.Context, paths []string) []BatchResult {
	out := make([]BatchResult, len(paths))
	if len(paths) == 0 {
		return out
	}

	q := eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
		eventqueue.WithMetrics(s.metrics),
	)
	results := make(chan workerpool.Result, len(paths))
	pool := workerpool.NewPool(s.workerCount, q, s, results,
		workerpool.WithLogger(s.logger),
		workerpool.WithMetrics(s.metrics),
	)
	pool.Start(ctx)

	s.logger.Info(ctx, "batch started",
		logger.Int("files", len(paths)),
		logger.Int("workers", pool.Size()),
	)

	go func() {
		defer func() { _ = q.Close() }()
		for i, p := range paths {
			job := eventqueue.Job{ID: uuid.NewString(), Index: i, Path: p}
			err := q.TryEnqueue(job)
			if errors.Is(err, eventqueue.ErrFull) {
				s.logger.Debug(ctx, "batch queue full, waiting", logger.Int("queued", q.Len()))
				err = q.Enqueue(ctx, job)
			}
			if err != nil {
				results <- workerpool.Result{Job: job, Err: err}
				for j := i + 1; j < len(paths); j++ {
					results <- workerpool.Result{Job: eventqueue.Job{Index: j, Path: paths[j]}, Err: err}
				}
				return
			}
		}
	}()

	stopped := make(chan struct{})
	go func() {
		pool.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), batchShutdownTimeout)
		if err := pool.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(ctx, "batch workers did not stop", logger.Error(err))
		}
		cancel()
		<-stopped
	}

	done := make([]bool, len(paths))
	for collected := 0; collected < len(paths); collected++ {
		var r workerpool.Result
		select {
		case r = <-results:
		default:
			// Workers stopped early on cancellation; whatever is missing failed.
			s.fillMissing(ctx, out, done, paths)
			return out
		}
		out[r.Job.Index] = BatchResult{Path: r.Job.Path, Report: r.Report, Err: r.Err}
		done[r.Job.Index] = true
	}

	s.logger.Info(ctx, "batch finished", logger.Int("files", len(paths)))
	return out
}

func (s *Service) fillMissing(ctx context.Context, out []BatchResult, done []bool, paths []string) {
	err := ctx.Err()
	if err == nil {
		err = context.Canceled
	}
	for i := range out {
		if !done[i] {
			out[i] = BatchResult{Path: paths[i], Err: err}
		}
	}
	s.logger.Warn(ctx, "batch interrupted", logger.Error(err))
}
