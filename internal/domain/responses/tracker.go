// Package responses records the option chosen for each answered question.
package responses

import (
	"fmt"

	"github.com/okian/vitalis/internal/domain/catalog"
)

// Catalog is the slice of the question catalog the tracker validates against.
type Catalog interface {
	Question(id int) (catalog.Question, bool)
}

// Tracker maps question ids to the selected option id. At most one answer
// is kept per question; recording again replaces the previous one.
type Tracker struct {
	catalog Catalog
	answers map[int]catalog.Option // question id -> selected option
}

// NewTracker creates an empty tracker bound to c.
func NewTracker(c Catalog) *Tracker {
	return &Tracker{
		catalog: c,
		answers: make(map[int]catalog.Option),
	}
}

// RecordAnswer stores optionID as the answer to questionID and returns the
// score delta (new value minus the previous value, 0 if unanswered).
// On error nothing is changed.
func (t *Tracker) RecordAnswer(questionID int, optionID string) (int, error) {
	q, ok := t.catalog.Question(questionID)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	opt, ok := q.Option(optionID)
	if !ok {
		return 0, fmt.Errorf("%w: %q for question %d", ErrUnknownOption, optionID, questionID)
	}

	prev := t.answers[questionID] // zero Option when unanswered
	t.answers[questionID] = opt
	return opt.Value - prev.Value, nil
}

// HasAnswer reports whether questionID has a recorded answer.
func (t *Tracker) HasAnswer(questionID int) bool {
	_, ok := t.answers[questionID]
	return ok
}

// AnswerFor returns the selected option id for questionID.
func (t *Tracker) AnswerFor(questionID int) (string, error) {
	opt, ok := t.answers[questionID]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnanswered, questionID)
	}
	return opt.ID, nil
}

// Answers returns a copy of the question id -> option id mapping.
func (t *Tracker) Answers() map[int]string {
	out := make(map[int]string, len(t.answers))
	for qid, opt := range t.answers {
		out[qid] = opt.ID
	}
	return out
}

// Sum recomputes the total of all recorded option values.
func (t *Tracker) Sum() int {
	total := 0
	for _, opt := range t.answers {
		total += opt.Value
	}
	return total
}

// Len returns the number of answered questions.
func (t *Tracker) Len() int {
	return len(t.answers)
}

// Clear drops every recorded answer.
func (t *Tracker) Clear() {
	clear(t.answers)
}
