package worker

import (
	"time"

	"github.com/okian/vitalis/pkg/logger"
)

// Option applies a configuration option to a Worker.
type Option func(*Worker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithRetries sets how many extra attempts a failed save gets and the pause
// between them.
func WithRetries(retries int, backoff time.Duration) Option {
	return func(w *Worker) {
		if retries >= 0 {
			w.retries = retries
		}
		if backoff >= 0 {
			w.backoff = backoff
		}
	}
}
