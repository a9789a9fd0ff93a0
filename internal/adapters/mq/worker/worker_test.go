package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/okian/vitalis/internal/adapters/mq/queue"
	"github.com/okian/vitalis/internal/adapters/mq/worker"
	"github.com/okian/vitalis/internal/domain/model"
	"github.com/okian/vitalis/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockSaver struct {
	mu       sync.Mutex
	saved    map[string]model.Result
	attempts map[string]int
	failures map[string]int // result id -> remaining failures
	err      error
}

func newMockSaver() *mockSaver {
	return &mockSaver{
		saved:    make(map[string]model.Result),
		attempts: make(map[string]int),
		failures: make(map[string]int),
		err:      errors.New("store unavailable"),
	}
}

func (s *mockSaver) Save(_ context.Context, r model.Result) error { //nolint:gocritic // matches Saver
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts[r.ResultID]++
	if s.failures[r.ResultID] > 0 {
		s.failures[r.ResultID]--
		return s.err
	}
	s.saved[r.ResultID] = r
	return nil
}

func (s *mockSaver) failFor(id string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[id] = n
}

func (s *mockSaver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func (s *mockSaver) attemptsFor(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[id]
}

func (s *mockSaver) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.saved[id]
	return ok
}

func newResult(id string) model.Result {
	return model.Result{ResultID: id, SessionID: "s-" + id, UserID: "u-1", Score: 25, MaxScore: 50, Percentage: 50, Category: "moderate_risk"}
}

func TestWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		_ = logger.InitWithOptions(logger.WithWriter(io.Discard))

		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		saver := newMockSaver()
		w := worker.NewWorker(q, saver, worker.WithName("test-worker"), worker.WithRetries(2, time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When results are queued and the queue closes", func() {
			for i := 0; i < 5; i++ {
				q.Enqueue(ctx, newResult(fmt.Sprintf("r%d", i)))
			}
			_ = q.Close()
			<-w.Done()

			convey.Convey("Then every result is saved before the worker exits", func() {
				convey.So(saver.count(), convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When a save fails transiently", func() {
			saver.failFor("flaky", 2)
			q.Enqueue(ctx, newResult("flaky"))
			_ = q.Close()
			<-w.Done()

			convey.Convey("Then it is retried until it succeeds", func() {
				convey.So(saver.has("flaky"), convey.ShouldBeTrue)
				convey.So(saver.attemptsFor("flaky"), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When a save keeps failing", func() {
			saver.failFor("broken", 10)
			q.Enqueue(ctx, newResult("broken"))
			q.Enqueue(ctx, newResult("after"))
			_ = q.Close()
			<-w.Done()

			convey.Convey("Then it is dropped after the retries and the worker moves on", func() {
				convey.So(saver.has("broken"), convey.ShouldBeFalse)
				convey.So(saver.attemptsFor("broken"), convey.ShouldEqual, 3)
				convey.So(saver.has("after"), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the context is cancelled", func() {
			cancel()

			convey.Convey("Then the worker stops", func() {
				select {
				case <-w.Done():
				case <-time.After(time.Second):
					convey.So("worker still running", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of workers", t, func() {
		_ = logger.InitWithOptions(logger.WithWriter(io.Discard))

		q := queue.NewInMemoryQueue(queue.WithCapacity(1000))
		saver := newMockSaver()
		pool := worker.NewPool(4, q, saver)

		convey.So(pool.Size(), convey.ShouldEqual, 4)

		convey.Convey("When it is started, fed and shut down", func() {
			ctx := context.Background()
			pool.Start(ctx)
			pool.Start(ctx)

			for i := 0; i < 200; i++ {
				convey.So(q.Enqueue(ctx, newResult(fmt.Sprintf("r%d", i))), convey.ShouldBeTrue)
			}

			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then the queue is drained into the store", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(saver.count(), convey.ShouldEqual, 200)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When it is shut down without being started", func() {
			err := pool.Shutdown(context.Background())

			convey.Convey("Then it returns immediately", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When created with a non-positive worker count", func() {
			p := worker.NewPool(0, queue.NewInMemoryQueue(), saver)

			convey.Convey("Then it falls back to at least one worker", func() {
				convey.So(p.Size(), convey.ShouldBeGreaterThan, 0)
			})
		})
	})
}
