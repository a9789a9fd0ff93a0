// Package worker drains the result queue into the result store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/vitalis/internal/adapters/mq/queue"
	"github.com/okian/vitalis/internal/domain/model"
	"github.com/okian/vitalis/pkg/logger"
	"github.com/okian/vitalis/pkg/metrics"
)

const (
	defaultRetries = 2
	defaultBackoff = 50 * time.Millisecond
)

// Source is where workers read results from.
type Source interface {
	Next(ctx context.Context) (model.Result, error)
}

// Saver persists a completed result.
type Saver interface {
	Save(ctx context.Context, r model.Result) error
}

// Worker moves results from a Source to a Saver until the source closes.
type Worker struct {
	source Source
	saver  Saver
	name   string

	retries int
	backoff time.Duration

	done   chan struct{}
	logger logger.Logger
}

// NewWorker creates a worker.
func NewWorker(source Source, saver Saver, opts ...Option) *Worker {
	w := &Worker{
		source:  source,
		saver:   saver,
		name:    "worker",
		retries: defaultRetries,
		backoff: defaultBackoff,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes results until the source is closed and drained or ctx ends.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	for {
		r, err := w.source.Next(ctx)
		if err != nil {
			if !errors.Is(err, queue.ErrClosed) && ctx.Err() == nil {
				w.logger.Error(ctx, "dequeue failed", logger.Error(err))
			}
			return
		}
		if err := w.process(ctx, r); err != nil {
			w.logger.Error(ctx, "result dropped",
				logger.String("result_id", r.ResultID),
				logger.String("user_id", r.UserID),
				logger.Error(err),
			)
		}
	}
}

// Done is closed once Run returns.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) process(ctx context.Context, r model.Result) error { //nolint:gocritic // results travel by value
	start := time.Now()
	defer func() {
		metrics.RecordWorkerLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	var err error
	for attempt := 0; attempt <= w.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(w.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = w.saver.Save(ctx, r); err == nil {
			return nil
		}
		if errors.Is(err, model.ErrInvalidResult) {
			break
		}
		w.logger.Warn(ctx, "save failed",
			logger.String("result_id", r.ResultID),
			logger.Int("attempt", attempt+1),
			logger.Error(err),
		)
	}

	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", "save_failed")
	return fmt.Errorf("save result %s: %w", r.ResultID, err)
}

// Pool runs a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
	queue   queue.Queue
	logger  logger.Logger
	started sync.Once
	running atomic.Bool
}

// NewPool creates a pool. workerCount < 1 means one worker per CPU.
func NewPool(workerCount int, q queue.Queue, saver Saver, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewWorker(q, saver, workerOpts...)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches every worker. Later calls are no-ops.
func (p *Pool) Start(ctx context.Context) {
	p.started.Do(func() {
		p.running.Store(true)
		for _, w := range p.workers {
			go w.Run(ctx)
		}
		metrics.UpdateWorkerCount(len(p.workers))
		p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
	})
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}
	if !p.running.Load() {
		return nil
	}

	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out",
				logger.Int("worker_id", i),
				logger.Int("pending", p.queue.Len()),
			)
			return fmt.Errorf("worker pool shutdown: %w", ctx.Err())
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
