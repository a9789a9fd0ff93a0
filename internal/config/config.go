// Package config defines service configuration and its loading rules.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers .env, an optional YAML file and VITALIS_* env vars on top.
//   - Errors wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Store backends accepted by StoreBackend.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ResultQueueSize bounds the queue between completed sessions and the store.
	ResultQueueSize int `koanf:"result_queue_size"`

	// WorkerCount sets the number of result workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the completion deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// SessionTTLMinutes evicts sessions idle for longer. 0 disables eviction.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// MaxSessions caps live sessions. 0 means unlimited.
	MaxSessions int `koanf:"max_sessions"`

	// HistoryLimit caps stored results per user.
	HistoryLimit int `koanf:"history_limit"`

	// StoreBackend selects the result store: memory or redis.
	StoreBackend string `koanf:"store_backend"`

	RedisAddr      string `koanf:"redis_addr"`
	RedisDB        int    `koanf:"redis_db"`
	RedisKeyPrefix string `koanf:"redis_key_prefix"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		ResultQueueSize:   10_000,
		WorkerCount:       runtime.NumCPU(),
		DedupeSize:        100_000,
		SessionTTLMinutes: 60,
		MaxSessions:       100_000,
		HistoryLimit:      50,
		StoreBackend:      StoreMemory,
		RedisAddr:         "localhost:6379",
		RedisDB:           0,
		RedisKeyPrefix:    "vitalis:",
	}
}

// SessionTTL returns the idle timeout as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ResultQueueSize <= 0:
		return fmt.Errorf("%w: result_queue_size must be positive, got %d", ErrInvalidConfig, c.ResultQueueSize)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	case c.SessionTTLMinutes < 0:
		return fmt.Errorf("%w: session_ttl_minutes must not be negative", ErrInvalidConfig)
	case c.MaxSessions < 0:
		return fmt.Errorf("%w: max_sessions must not be negative", ErrInvalidConfig)
	case c.HistoryLimit <= 0:
		return fmt.Errorf("%w: history_limit must be positive, got %d", ErrInvalidConfig, c.HistoryLimit)
	}

	switch c.StoreBackend {
	case StoreMemory:
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	return nil
}
