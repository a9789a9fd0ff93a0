package simulate

import (
	"fmt"

	"github.com/okian/vitalis/internal/domain/classify"
	"github.com/okian/vitalis/internal/domain/scoring"
	"github.com/okian/vitalis/internal/domain/types"
)

// verifyResult recomputes percentage and category from the expected score
// and compares them with what the service returned.
func verifyResult(got types.Result, score, maxScore int) error {
	want := scoring.Result{Score: score, MaxScore: maxScore}
	pct := want.Percentage()
	cat := classify.Classify(pct)

	switch {
	case got.Score != score:
		return fmt.Errorf("score %d, expected %d", got.Score, score)
	case got.MaxScore != maxScore:
		return fmt.Errorf("max score %d, expected %d", got.MaxScore, maxScore)
	case got.Percentage != pct:
		return fmt.Errorf("percentage %d, expected %d", got.Percentage, pct)
	case got.Category != cat.String():
		return fmt.Errorf("category %q, expected %q", got.Category, cat)
	case got.Title != cat.Title():
		return fmt.Errorf("title %q, expected %q", got.Title, cat.Title())
	case len(got.Recommendations) == 0:
		return fmt.Errorf("category %q has no recommendations", got.Category)
	}
	return nil
}

// verifyHistory checks that every result a user completed was stored. When
// the user completed more than limit assessments only the newest limit are
// kept, so a full history is accepted as is.
func verifyHistory(stored []types.Result, want map[string]struct{}, limit int) error {
	seen := make(map[string]struct{}, len(stored))
	for _, r := range stored {
		if _, dup := seen[r.ResultID]; dup {
			return fmt.Errorf("result %s stored twice", r.ResultID)
		}
		seen[r.ResultID] = struct{}{}
	}
	if len(want) > limit {
		if len(stored) < limit {
			return fmt.Errorf("history holds %d results, expected %d", len(stored), limit)
		}
		return nil
	}
	for id := range want {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("result %s missing from history", id)
		}
	}
	return nil
}
