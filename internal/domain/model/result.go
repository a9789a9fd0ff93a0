// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/okian/vitalis/internal/domain/classify"
)

// ErrInvalidResult marks a result that cannot be stored.
var ErrInvalidResult = errors.New("invalid result")

// Result is a completed assessment as handed to the result store.
type Result struct {
	ResultID    string            `json:"result_id"`
	SessionID   string            `json:"session_id"`
	UserID      string            `json:"user_id"`
	Score       int               `json:"score"`
	MaxScore    int               `json:"max_score"`
	Percentage  int               `json:"percentage"`
	Category    classify.Category `json:"category"`
	Answers     map[int]string    `json:"answers,omitempty"` // question id -> option id
	CompletedAt time.Time         `json:"completed_at"`
}

// Validate checks the fields a store relies on.
func (r *Result) Validate() error {
	switch {
	case r.ResultID == "":
		return fmt.Errorf("%w: missing result_id", ErrInvalidResult)
	case r.UserID == "":
		return fmt.Errorf("%w: missing user_id", ErrInvalidResult)
	case r.MaxScore <= 0:
		return fmt.Errorf("%w: max_score must be positive", ErrInvalidResult)
	case r.Score < 0 || r.Score > r.MaxScore:
		return fmt.Errorf("%w: score %d outside [0, %d]", ErrInvalidResult, r.Score, r.MaxScore)
	}
	if _, err := classify.ParseCategory(string(r.Category)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResult, err)
	}
	return nil
}
