// Package classify maps an assessment percentage onto a risk category.
package classify

import (
	"fmt"
	"strings"
)

// Percentage thresholds; a boundary value belongs to the higher category.
const (
	excellentFrom = 80
	goodFrom      = 60
	moderateFrom  = 40
)

// Category is one of the four ordered result tiers.
type Category string

const (
	Excellent    Category = "excellent"
	Good         Category = "good"
	ModerateRisk Category = "moderate_risk"
	HighRisk     Category = "high_risk"
)

// Details is the static copy shown for a category.
type Details struct {
	Category        Category `json:"category"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Recommendations []string `json:"recommendations"`
}

var details = map[Category]Details{ //nolint:gochecknoglobals // static content
	Excellent: {
		Category:    Excellent,
		Title:       "Excellent",
		Description: "Your health habits are excellent. Keep up the great work maintaining a healthy lifestyle.",
		Recommendations: []string{
			"Continue your current exercise routine",
			"Maintain a balanced, varied diet",
			"Keep up with yearly check-ups",
			"Stay hydrated throughout the day",
		},
	},
	Good: {
		Category:    Good,
		Title:       "Good",
		Description: "You have good health habits with some room for improvement.",
		Recommendations: []string{
			"Increase your physical activity gradually",
			"Add more fruits and vegetables to your meals",
			"Aim for 7-9 hours of sleep every night",
		},
	},
	ModerateRisk: {
		Category:    ModerateRisk,
		Title:       "Moderate Risk",
		Description: "Some of your habits may be putting your health at risk. Small changes can make a big difference.",
		Recommendations: []string{
			"Book a check-up with your healthcare provider",
			"Start with 15 minutes of exercise every day",
			"Practice a stress-management technique such as breathing exercises",
			"Cut down on processed food and sugary drinks",
		},
	},
	HighRisk: {
		Category:    HighRisk,
		Title:       "High Risk",
		Description: "Your answers point to several health risk factors. Please talk to a healthcare professional soon.",
		Recommendations: []string{
			"Schedule a medical consultation as soon as possible",
			"Ask your doctor about a plan to quit tobacco and reduce alcohol",
			"Seek support for managing stress",
			"Set small, achievable goals for sleep, diet and activity",
		},
	},
}

// Categories lists every category from best to worst.
func Categories() []Category {
	return []Category{Excellent, Good, ModerateRisk, HighRisk}
}

// Classify returns the category for a percentage in [0, 100].
func Classify(percentage int) Category {
	switch {
	case percentage >= excellentFrom:
		return Excellent
	case percentage >= goodFrom:
		return Good
	case percentage >= moderateFrom:
		return ModerateRisk
	default:
		return HighRisk
	}
}

// ParseCategory reconstructs a Category from its string form.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := details[c]; !ok {
		return "", fmt.Errorf("invalid category: %q", s)
	}
	return c, nil
}

// Details returns the description and recommendations for c. The returned
// recommendation slice is a copy.
func (c Category) Details() Details {
	d, ok := details[c]
	if !ok {
		return Details{Category: c}
	}
	d.Recommendations = append([]string(nil), d.Recommendations...)
	return d
}

// Title returns the display name.
func (c Category) Title() string {
	return details[c].Title
}

func (c Category) String() string {
	return string(c)
}
