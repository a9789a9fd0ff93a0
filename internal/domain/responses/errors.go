package responses

import "errors"

// Sentinel kinds for response tracking errors.
var (
	ErrUnknownQuestion = errors.New("unknown question")
	ErrUnknownOption   = errors.New("unknown option")
	ErrUnanswered      = errors.New("question unanswered")
)
