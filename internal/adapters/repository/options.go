package repository

import "time"

const (
	defaultHistoryLimit = 50
	defaultKeyPrefix    = "vitalis:"
	defaultMarkerTTL    = 7 * 24 * time.Hour
)

type options struct {
	historyLimit int
	keyPrefix    string
	markerTTL    time.Duration
}

func newOptions(opts []Option) options {
	o := options{
		historyLimit: defaultHistoryLimit,
		keyPrefix:    defaultKeyPrefix,
		markerTTL:    defaultMarkerTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option applies a configuration option to a Store implementation.
type Option func(*options)

// WithHistoryLimit caps how many results are kept per user. Older results
// are dropped first.
func WithHistoryLimit(limit int) Option {
	return func(o *options) {
		if limit > 0 {
			o.historyLimit = limit
		}
	}
}

// WithKeyPrefix namespaces Redis keys.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
	}
}

// WithMarkerTTL sets how long Redis remembers a saved result id for
// idempotent saves. 0 keeps markers forever.
func WithMarkerTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl >= 0 {
			o.markerTTL = ttl
		}
	}
}
