package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	// ErrClosed is returned by Next once the queue is closed and drained.
	ErrClosed = errors.New("queue closed")
)
