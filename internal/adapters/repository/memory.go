package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/vitalis/internal/domain/model"
	"github.com/okian/vitalis/pkg/metrics"
)

// MemoryStore keeps results in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]model.Result // newest first
	ids    map[string]struct{}
	total  int
	opts   options
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		byUser: make(map[string][]model.Result),
		ids:    make(map[string]struct{}),
		opts:   newOptions(opts),
	}
}

// Save stores r at the head of its user's history.
func (s *MemoryStore) Save(_ context.Context, r model.Result) error { //nolint:gocritic // Store contract
	start := time.Now()
	if err := r.Validate(); err != nil {
		metrics.RecordStoreError("save")
		return err
	}

	s.mu.Lock()
	if _, dup := s.ids[r.ResultID]; dup {
		s.mu.Unlock()
		return nil
	}
	s.ids[r.ResultID] = struct{}{}

	history := append([]model.Result{cloneResult(r)}, s.byUser[r.UserID]...)
	if len(history) > s.opts.historyLimit {
		for _, dropped := range history[s.opts.historyLimit:] {
			delete(s.ids, dropped.ResultID)
		}
		history = history[:s.opts.historyLimit]
	}
	s.byUser[r.UserID] = history
	s.total++
	total := s.total
	s.mu.Unlock()

	metrics.RecordStoreWrite()
	metrics.UpdateStoredResults(total)
	metrics.RecordStoreLatency("save", float64(time.Since(start).Microseconds())/1000)
	return nil
}

// Latest returns the newest result for userID.
func (s *MemoryStore) Latest(_ context.Context, userID string) (model.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.byUser[userID]
	if len(history) == 0 {
		return model.Result{}, fmt.Errorf("%w: user %q", ErrNotFound, userID)
	}
	return cloneResult(history[0]), nil
}

// History returns up to limit results, newest first. Unknown users yield an
// empty slice.
func (s *MemoryStore) History(_ context.Context, userID string, limit int) ([]model.Result, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.byUser[userID]
	n := min(limit, len(history))
	out := make([]model.Result, n)
	for i := range n {
		out[i] = cloneResult(history[i])
	}
	return out, nil
}

// Count returns the number of results accepted.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
