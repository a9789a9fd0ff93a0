// Package catalog holds the static question catalog of the health assessment.
package catalog

import (
	"fmt"
)

// Option is one selectable answer to a question.
type Option struct {
	ID    string // unique within its question only
	Text  string
	Value int // points awarded, >= 0
}

// Question is a single assessment prompt with a fixed ordered set of options.
type Question struct {
	ID      int
	Text    string
	Options []Option
}

// Option returns the option with the given id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// MaxValue returns the highest option value of the question.
func (q Question) MaxValue() int {
	best := 0
	for _, o := range q.Options {
		if o.Value > best {
			best = o.Value
		}
	}
	return best
}

func (q Question) clone() Question {
	opts := make([]Option, len(q.Options))
	copy(opts, q.Options)
	q.Options = opts
	return q
}

// Catalog is a read-only, ordered list of questions.
type Catalog struct {
	questions []Question
	byID      map[int]int // question id -> index
}

// New validates questions and builds a catalog from them. The slice is
// copied so later changes by the caller do not leak in.
func New(questions []Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidCatalog)
	}
	c := &Catalog{
		questions: make([]Question, len(questions)),
		byID:      make(map[int]int, len(questions)),
	}
	for i, q := range questions {
		if _, dup := c.byID[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %d", ErrInvalidCatalog, q.ID)
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("%w: question %d has no options", ErrInvalidCatalog, q.ID)
		}
		seen := make(map[string]struct{}, len(q.Options))
		for _, o := range q.Options {
			if _, dup := seen[o.ID]; dup {
				return nil, fmt.Errorf("%w: question %d repeats option %q", ErrInvalidCatalog, q.ID, o.ID)
			}
			if o.Value < 0 {
				return nil, fmt.Errorf("%w: question %d option %q has negative value", ErrInvalidCatalog, q.ID, o.ID)
			}
			seen[o.ID] = struct{}{}
		}
		c.questions[i] = q.clone()
		c.byID[q.ID] = i
	}
	return c, nil
}

// Count returns the number of questions.
func (c *Catalog) Count() int {
	return len(c.questions)
}

// At returns the question at index.
func (c *Catalog) At(index int) (Question, error) {
	if index < 0 || index >= len(c.questions) {
		return Question{}, fmt.Errorf("%w: index %d not in [0, %d)", ErrOutOfRange, index, len(c.questions))
	}
	return c.questions[index].clone(), nil
}

// Question looks a question up by its id.
func (c *Catalog) Question(id int) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i].clone(), true
}

// Questions returns a copy of the ordered question list.
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.clone()
	}
	return out
}

// MaxPossibleScore sums the best option value of every question.
func (c *Catalog) MaxPossibleScore() int {
	total := 0
	for _, q := range c.questions {
		total += q.MaxValue()
	}
	return total
}
