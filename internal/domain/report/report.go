// Package report renders assessment results as a downloadable text document.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/vitalis/internal/domain/classify"
)

// Input is what the report needs to know about a finished assessment.
type Input struct {
	Score       int
	MaxScore    int
	Percentage  int
	Category    classify.Category
	CompletedAt time.Time
}

// Render returns the plain-text report.
func Render(in Input) string {
	d := in.Category.Details()

	var b strings.Builder
	b.WriteString("Health Risk Assessment Results\n")
	b.WriteString("==============================\n\n")
	if !in.CompletedAt.IsZero() {
		fmt.Fprintf(&b, "Completed: %s\n", in.CompletedAt.UTC().Format(time.RFC1123))
	}
	fmt.Fprintf(&b, "Score:     %d / %d (%d%%)\n", in.Score, in.MaxScore, in.Percentage)
	fmt.Fprintf(&b, "Result:    %s\n\n", d.Title)
	b.WriteString(d.Description)
	b.WriteString("\n\nRecommendations:\n")
	for i, r := range d.Recommendations {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, r)
	}
	b.WriteString("\nThis self-assessment is not a medical diagnosis.\n")
	return b.String()
}
