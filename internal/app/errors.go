package service

import "errors"

// Sentinel kinds for service errors. Domain errors from the assessment
// packages pass through unchanged.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrSessionNotFound = errors.New("session not found")
	ErrCapacity        = errors.New("session capacity reached")
	ErrInvalidUser     = errors.New("user id must not be empty")
)
