// Package scoring keeps the running assessment score and produces the final
// (score, maxScore) pair.
package scoring

const fullPercent = 100

// MaxScorer reports the highest score a catalog allows.
type MaxScorer interface {
	MaxPossibleScore() int
}

// Result is the finalized score of an assessment.
type Result struct {
	Score    int `json:"score"`
	MaxScore int `json:"max_score"`
}

// Percentage returns round(100*Score/MaxScore) rounded half up and clamped
// to [0, 100]. A zero MaxScore yields 0.
func (r Result) Percentage() int {
	if r.MaxScore <= 0 || r.Score <= 0 {
		return 0
	}
	// Integer round-half-up: floor((2*100*s + m) / (2*m)).
	pct := (2*fullPercent*r.Score + r.MaxScore) / (2 * r.MaxScore)
	if pct > fullPercent {
		return fullPercent
	}
	return pct
}

// Engine maintains the running integer total of an assessment.
// It is owned by a single assessment and is not safe for concurrent use.
type Engine struct {
	catalog MaxScorer
	total   int
}

// NewEngine creates an engine starting at zero.
func NewEngine(c MaxScorer) *Engine {
	return &Engine{catalog: c}
}

// ApplyDelta adds a score delta reported by the response tracker.
func (e *Engine) ApplyDelta(delta int) {
	e.total += delta
}

// CurrentScore returns the running total.
func (e *Engine) CurrentScore() int {
	return e.total
}

// Finalize returns the current score together with the catalog maximum.
// Before every question is answered the result is provisional.
func (e *Engine) Finalize() Result {
	return Result{
		Score:    e.total,
		MaxScore: e.catalog.MaxPossibleScore(),
	}
}

// Reset sets the running total back to zero.
func (e *Engine) Reset() {
	e.total = 0
}
