package catalog

// healthQuestions is the fixed health-risk questionnaire. Texts and point
// values are part of the product and must not drift between releases.
var healthQuestions = []Question{ //nolint:gochecknoglobals // static catalog data
	{
		ID:   1,
		Text: "How would you rate your overall health?",
		Options: []Option{
			{ID: "a", Text: "Excellent", Value: 5},
			{ID: "b", Text: "Very good", Value: 4},
			{ID: "c", Text: "Good", Value: 3},
			{ID: "d", Text: "Fair", Value: 1},
			{ID: "e", Text: "Poor", Value: 0},
		},
	},
	{
		ID:   2,
		Text: "How many days per week do you get at least 30 minutes of physical activity?",
		Options: []Option{
			{ID: "a", Text: "5 or more days", Value: 5},
			{ID: "b", Text: "3-4 days", Value: 3},
			{ID: "c", Text: "1-2 days", Value: 1},
			{ID: "d", Text: "None", Value: 0},
		},
	},
	{
		ID:   3,
		Text: "How many servings of fruits and vegetables do you eat on a typical day?",
		Options: []Option{
			{ID: "a", Text: "5 or more servings", Value: 5},
			{ID: "b", Text: "3-4 servings", Value: 3},
			{ID: "c", Text: "1-2 servings", Value: 1},
			{ID: "d", Text: "Rarely or never", Value: 0},
		},
	},
	{
		ID:   4,
		Text: "How many hours of sleep do you usually get per night?",
		Options: []Option{
			{ID: "a", Text: "7-9 hours", Value: 5},
			{ID: "b", Text: "6-7 hours", Value: 3},
			{ID: "c", Text: "More than 9 hours", Value: 2},
			{ID: "d", Text: "Less than 6 hours", Value: 1},
		},
	},
	{
		ID:   5,
		Text: "Do you smoke or use tobacco products?",
		Options: []Option{
			{ID: "a", Text: "Never", Value: 5},
			{ID: "b", Text: "I quit more than a year ago", Value: 3},
			{ID: "c", Text: "Occasionally", Value: 1},
			{ID: "d", Text: "Daily", Value: 0},
		},
	},
	{
		ID:   6,
		Text: "How many alcoholic drinks do you have in a typical week?",
		Options: []Option{
			{ID: "a", Text: "None", Value: 5},
			{ID: "b", Text: "1-7 drinks", Value: 4},
			{ID: "c", Text: "8-14 drinks", Value: 2},
			{ID: "d", Text: "More than 14 drinks", Value: 0},
		},
	},
	{
		ID:   7,
		Text: "How often do you feel stressed or overwhelmed?",
		Options: []Option{
			{ID: "a", Text: "Rarely", Value: 5},
			{ID: "b", Text: "Sometimes", Value: 3},
			{ID: "c", Text: "Often", Value: 1},
			{ID: "d", Text: "Almost always", Value: 0},
		},
	},
	{
		ID:   8,
		Text: "How much water do you drink on a typical day?",
		Options: []Option{
			{ID: "a", Text: "8 or more glasses", Value: 5},
			{ID: "b", Text: "5-7 glasses", Value: 3},
			{ID: "c", Text: "Fewer than 5 glasses", Value: 1},
		},
	},
	{
		ID:   9,
		Text: "When did you last have a routine medical check-up?",
		Options: []Option{
			{ID: "a", Text: "Within the last year", Value: 5},
			{ID: "b", Text: "1-2 years ago", Value: 3},
			{ID: "c", Text: "More than 2 years ago", Value: 1},
			{ID: "d", Text: "Never", Value: 0},
		},
	},
	{
		ID:   10,
		Text: "Does anyone in your immediate family have a history of heart disease, diabetes or cancer?",
		Options: []Option{
			{ID: "a", Text: "No", Value: 5},
			{ID: "b", Text: "Not sure", Value: 3},
			{ID: "c", Text: "Yes, one of these conditions", Value: 2},
			{ID: "d", Text: "Yes, more than one of these conditions", Value: 0},
		},
	},
}

// Default returns the health-risk questionnaire catalog.
func Default() *Catalog {
	c, err := New(healthQuestions)
	if err != nil {
		panic("catalog: built-in questionnaire is invalid: " + err.Error())
	}
	return c
}
