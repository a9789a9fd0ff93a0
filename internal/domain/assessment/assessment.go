// Package assessment ties the catalog, response tracker, scoring engine and
// navigation controller into one assessment instance.
//
// An Assessment is owned by exactly one caller at a time and does no locking.
// Once it reaches Completed it is frozen: answers and navigation are rejected
// with ErrCompleted until Reset, and Finalize keeps returning the snapshot
// taken on completion.
package assessment

import (
	"github.com/okian/vitalis/internal/domain/catalog"
	"github.com/okian/vitalis/internal/domain/classify"
	"github.com/okian/vitalis/internal/domain/navigation"
	"github.com/okian/vitalis/internal/domain/responses"
	"github.com/okian/vitalis/internal/domain/scoring"
)

// Outcome is the classified result of a completed assessment.
type Outcome struct {
	scoring.Result
	Percentage int
	Category   classify.Category
}

// Assessment is one in-progress or completed questionnaire traversal.
type Assessment struct {
	catalog *catalog.Catalog
	tracker *responses.Tracker
	engine  *scoring.Engine
	nav     *navigation.Controller

	final *scoring.Result // set on completion
}

// New starts an assessment over c at the first question.
func New(c *catalog.Catalog) *Assessment {
	return &Assessment{
		catalog: c,
		tracker: responses.NewTracker(c),
		engine:  scoring.NewEngine(c),
		nav:     navigation.NewController(c.Count()),
	}
}

// Catalog returns the catalog the assessment runs over.
func (a *Assessment) Catalog() *catalog.Catalog {
	return a.catalog
}

// RecordAnswer records optionID for questionID and returns the score delta.
func (a *Assessment) RecordAnswer(questionID int, optionID string) (int, error) {
	if a.final != nil {
		return 0, ErrCompleted
	}
	delta, err := a.tracker.RecordAnswer(questionID, optionID)
	if err != nil {
		return 0, err
	}
	a.engine.ApplyDelta(delta)
	return delta, nil
}

// AnsweredAt reports whether the question at catalog index has an answer.
func (a *Assessment) AnsweredAt(index int) bool {
	q, err := a.catalog.At(index)
	if err != nil {
		return false
	}
	return a.tracker.HasAnswer(q.ID)
}

// Advance moves forward. Advancing from the last answered question
// completes the assessment and snapshots the final score.
func (a *Assessment) Advance() (navigation.State, error) {
	st, err := a.nav.Advance(a)
	if err != nil {
		return st, err
	}
	if st.Completed() {
		res := a.engine.Finalize()
		a.final = &res
	}
	return st, nil
}

// Retreat moves back one question. Answers are kept.
func (a *Assessment) Retreat() (navigation.State, error) {
	return a.nav.Retreat()
}

// Reset clears all answers and the score and returns to the first question.
func (a *Assessment) Reset() navigation.State {
	a.tracker.Clear()
	a.engine.Reset()
	a.final = nil
	return a.nav.Reset()
}

// Finalize returns the completion snapshot, or the live provisional score
// while the assessment is still in progress.
func (a *Assessment) Finalize() scoring.Result {
	if a.final != nil {
		return *a.final
	}
	return a.engine.Finalize()
}

// Outcome classifies the final result. It fails with ErrNotCompleted until
// the assessment is completed.
func (a *Assessment) Outcome() (Outcome, error) {
	if a.final == nil {
		return Outcome{}, ErrNotCompleted
	}
	pct := a.final.Percentage()
	return Outcome{
		Result:     *a.final,
		Percentage: pct,
		Category:   classify.Classify(pct),
	}, nil
}

// State returns the navigation state.
func (a *Assessment) State() navigation.State {
	return a.nav.State()
}

// Completed reports whether the assessment reached the terminal state.
func (a *Assessment) Completed() bool {
	return a.final != nil
}

// Progress returns the fraction of the questionnaire reached.
func (a *Assessment) Progress() float64 {
	return a.nav.Progress()
}

// CurrentQuestion returns the visible question.
func (a *Assessment) CurrentQuestion() (catalog.Question, error) {
	st := a.nav.State()
	if st.Completed() {
		return catalog.Question{}, ErrCompleted
	}
	return a.catalog.At(st.Index)
}

// CurrentScore returns the running score.
func (a *Assessment) CurrentScore() int {
	return a.engine.CurrentScore()
}

// HasAnswer reports whether questionID is answered.
func (a *Assessment) HasAnswer(questionID int) bool {
	return a.tracker.HasAnswer(questionID)
}

// AnswerFor returns the option id selected for questionID.
func (a *Assessment) AnswerFor(questionID int) (string, error) {
	return a.tracker.AnswerFor(questionID)
}

// Answers returns a copy of all recorded answers.
func (a *Assessment) Answers() map[int]string {
	return a.tracker.Answers()
}
