// Package repository stores completed assessment results per user.
package repository

import (
	"context"
	"maps"

	"github.com/okian/vitalis/internal/domain/model"
)

// Store provides read/write access to completed results.
type Store interface {
	// Save appends r to its user's history. Saving a result id that was
	// already stored is a no-op.
	Save(ctx context.Context, r model.Result) error

	// Latest returns the newest result for a user, or ErrNotFound.
	Latest(ctx context.Context, userID string) (model.Result, error)

	// History returns up to limit results for a user, newest first.
	History(ctx context.Context, userID string, limit int) ([]model.Result, error)

	// Count returns the number of results accepted since the store was created.
	Count(ctx context.Context) (int, error)

	Close() error
}

func cloneResult(r model.Result) model.Result { //nolint:gocritic // copy semantics
	r.Answers = maps.Clone(r.Answers)
	return r
}
