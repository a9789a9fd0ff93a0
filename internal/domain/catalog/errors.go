package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrOutOfRange     = errors.New("question index out of range")
	ErrInvalidCatalog = errors.New("invalid catalog")
)
