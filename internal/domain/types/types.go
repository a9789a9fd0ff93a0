// Package types contains the JSON shapes shared by the API and its clients.
package types

import "time"

// Option is an answer choice as shown to the host.
type Option struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// Question is a catalog question as shown to the host.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Catalog is the full questionnaire.
type Catalog struct {
	Questions []Question `json:"questions"`
	MaxScore  int        `json:"max_score"`
}

// Session describes an assessment session and what the host should display.
type Session struct {
	SessionID     string         `json:"session_id"`
	UserID        string         `json:"user_id"`
	Status        string         `json:"status"`
	Index         int            `json:"index"`
	Total         int            `json:"total"`
	Progress      float64        `json:"progress"`
	Question      *Question      `json:"question,omitempty"`
	CurrentAnswer string         `json:"current_answer,omitempty"`
	Answers       map[int]string `json:"answers"`
	Score         int            `json:"score"`
	Delta         *int           `json:"delta,omitempty"`
	Result        *Result        `json:"result,omitempty"`
}

// Result is a classified assessment outcome.
type Result struct {
	ResultID        string    `json:"result_id,omitempty"`
	SessionID       string    `json:"session_id,omitempty"`
	Score           int       `json:"score"`
	MaxScore        int       `json:"max_score"`
	Percentage      int       `json:"percentage"`
	Category        string    `json:"category"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Recommendations []string  `json:"recommendations"`
	CompletedAt     time.Time `json:"completed_at"`
}
