// Package navigation sequences question presentation for an assessment.
package navigation

import "fmt"

// Status distinguishes an in-progress traversal from the terminal state.
type Status string

const (
	StatusAtQuestion Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// State is either AtQuestion(Index) or Completed.
type State struct {
	Status Status
	Index  int // meaningful only while Status == StatusAtQuestion
}

// Completed reports whether the traversal reached the terminal state.
func (s State) Completed() bool {
	return s.Status == StatusCompleted
}

func (s State) String() string {
	if s.Completed() {
		return "Completed"
	}
	return fmt.Sprintf("AtQuestion(%d)", s.Index)
}

// AnswerChecker reports whether the question at a catalog index is answered.
type AnswerChecker interface {
	AnsweredAt(index int) bool
}

// Controller is the forward/back state machine over count questions.
type Controller struct {
	count int
	state State
}

// NewController starts at AtQuestion(0).
func NewController(count int) *Controller {
	return &Controller{
		count: count,
		state: State{Status: StatusAtQuestion},
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Count returns the number of questions being traversed.
func (c *Controller) Count() int {
	return c.count
}

// Advance moves to the next question, or to Completed from the last one.
// It fails with ErrAnswerRequired when the current question is unanswered
// and leaves the state untouched.
func (c *Controller) Advance(answers AnswerChecker) (State, error) {
	if c.state.Completed() {
		return c.state, ErrCompleted
	}
	if !answers.AnsweredAt(c.state.Index) {
		return c.state, fmt.Errorf("%w: question %d", ErrAnswerRequired, c.state.Index+1)
	}
	if c.state.Index >= c.count-1 {
		c.state = State{Status: StatusCompleted}
	} else {
		c.state.Index++
	}
	return c.state, nil
}

// Retreat moves back one question; it is a no-op on the first question.
func (c *Controller) Retreat() (State, error) {
	if c.state.Completed() {
		return c.state, ErrCompleted
	}
	if c.state.Index > 0 {
		c.state.Index--
	}
	return c.state, nil
}

// Reset returns to AtQuestion(0) from any state.
func (c *Controller) Reset() State {
	c.state = State{Status: StatusAtQuestion}
	return c.state
}

// Progress returns (index+1)/count, or 1 once completed.
func (c *Controller) Progress() float64 {
	if c.state.Completed() || c.count == 0 {
		return 1
	}
	return float64(c.state.Index+1) / float64(c.count)
}
