package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrNotFound     = errors.New("no stored results")
	ErrInvalidLimit = errors.New("invalid history limit")
	ErrStore        = errors.New("result store failure")
)
