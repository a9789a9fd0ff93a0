package navigation

import "errors"

// Sentinel kinds for navigation errors.
var (
	// ErrAnswerRequired is the one error expected in normal use: the user
	// tried to move on without answering.
	ErrAnswerRequired = errors.New("answer required")
	ErrCompleted      = errors.New("assessment already completed")
)
