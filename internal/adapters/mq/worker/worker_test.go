package worker_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/ptt/internal/adapters/mq/queue"
	worker "github.com/okian/ptt/internal/adapters/mq/worker"
	"github.com/okian/ptt/internal/domain/types"
	"github.com/okian/ptt/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

type mockEvaluator struct {
	mu     sync.Mutex
	seen   []string
	errors map[string]error
	delay  time.Duration
}

func newMockEvaluator() *mockEvaluator {
	return &mockEvaluator{errors: make(map[string]error)}
}

func (m *mockEvaluator) EvaluateFile(ctx context.Context, path string) (*types.Report, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, path)
	if err, ok := m.errors[path]; ok {
		return nil, err
	}
	return &types.Report{Source: path}, nil
}

func (m *mockEvaluator) paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]string(nil), m.seen...)
	sort.Strings(out)
	return out
}

func fill(q *queue.InMemoryQueue, paths ...string) {
	for i, p := range paths {
		_ = q.TryEnqueue(queue.Job{ID: p, Index: i, Path: p})
	}
	_ = q.Close()
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool over a filled queue", t, func() {
		m := metrics.NewManager()
		q := queue.NewInMemoryQueue(queue.WithCapacity(8), queue.WithMetrics(m))
		eval := newMockEvaluator()
		eval.errors["bad.json"] = errors.New("boom")
		results := make(chan worker.Result, 8)

		fill(q, "a.json", "b.json", "bad.json", "c.yaml")
		pool := worker.NewPool(3, q, eval, results, worker.WithMetrics(m))

		convey.Convey("When the pool runs until the queue is drained", func() {
			pool.Start(context.Background())
			pool.Wait()
			close(results)

			got := map[int]worker.Result{}
			for r := range results {
				got[r.Job.Index] = r
			}

			convey.Convey("Then every job produced one result", func() {
				convey.So(pool.Size(), convey.ShouldEqual, 3)
				convey.So(got, convey.ShouldHaveLength, 4)
				convey.So(eval.paths(), convey.ShouldResemble, []string{"a.json", "b.json", "bad.json", "c.yaml"})
			})

			convey.Convey("And failures carry the evaluator error", func() {
				convey.So(got[2].Err, convey.ShouldNotBeNil)
				convey.So(got[2].Report, convey.ShouldBeNil)
				convey.So(got[0].Err, convey.ShouldBeNil)
				convey.So(got[0].Report.Source, convey.ShouldEqual, "a.json")
			})
		})
	})

	convey.Convey("Given a pool with a zero worker count", t, func() {
		q := queue.NewInMemoryQueue(queue.WithMetrics(metrics.NewManager()))
		pool := worker.NewPool(0, q, newMockEvaluator(), make(chan worker.Result, 1))

		convey.Convey("Then it falls back to one worker per CPU", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})

	convey.Convey("Given a running pool on an open queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithMetrics(metrics.NewManager()))
		pool := worker.NewPool(2, q, newMockEvaluator(), make(chan worker.Result, 1))
		pool.Start(context.Background())

		convey.Convey("When shutting down", func() {
			err := pool.Shutdown(context.Background())

			convey.Convey("Then the queue is closed and workers exit", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(q.Enqueue(context.Background(), queue.Job{ID: "late"}), convey.ShouldEqual, queue.ErrClosed)
				pool.Wait()
			})
		})
	})
}

func TestWorkerCancel(t *testing.T) {
	convey.Convey("Given a worker with a cancelled context", t, func() {
		q := queue.NewInMemoryQueue(queue.WithMetrics(metrics.NewManager()))
		w := worker.NewInMemoryWorker(q, newMockEvaluator(), make(chan worker.Result), worker.WithName("solo"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		convey.Convey("Then Run returns without processing", func() {
			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				convey.So("worker did not stop", convey.ShouldBeEmpty)
			}
			convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)
		})
	})
}
