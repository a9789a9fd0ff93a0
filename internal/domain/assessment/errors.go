package assessment

import (
	"errors"

	"github.com/okian/vitalis/internal/domain/navigation"
)

// Sentinel kinds for assessment errors. Errors from the catalog, responses
// and navigation packages pass through unchanged.
var (
	ErrCompleted    = navigation.ErrCompleted
	ErrNotCompleted = errors.New("assessment not completed")
)
