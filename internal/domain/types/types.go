// Package types contains the report types shared by the service and the renderers.
package types

import "time"

// Window names used in Entry.Window.
const (
	WindowTop    = "best30"
	WindowRecent = "recent10"
)

// Report is the evaluated view of one profile.
type Report struct {
	ID            string        `json:"id" yaml:"id"`
	Source        string        `json:"source,omitempty" yaml:"source,omitempty"`
	Player        string        `json:"player" yaml:"player"`
	Aggregate     float64       `json:"aggregate" yaml:"aggregate"`
	Display       float64       `json:"display" yaml:"display"`
	TopAverage    float64       `json:"top_average" yaml:"top_average"`
	RecentAverage float64       `json:"recent_average" yaml:"recent_average"`
	Entries       []Entry       `json:"entries" yaml:"entries"`
	Unrated       int           `json:"unrated" yaml:"unrated"`
	Requirements  *Requirements `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	GeneratedAt   time.Time     `json:"generated_at" yaml:"generated_at"`
}

// Entry is one chart row of a report. Constant and Rating are nil for
// charts that could not be rated.
type Entry struct {
	Window     string   `json:"window" yaml:"window"`
	Rank       int      `json:"rank" yaml:"rank"`
	Title      string   `json:"title" yaml:"title"`
	Difficulty string   `json:"difficulty" yaml:"difficulty"`
	Constant   *float64 `json:"constant" yaml:"constant"`
	Score      int      `json:"score" yaml:"score"`
	Grade      string   `json:"grade" yaml:"grade"`
	Rating     *float64 `json:"rating" yaml:"rating"`
	Target     *Target  `json:"target,omitempty" yaml:"target,omitempty"`
}

// Target is the smallest score on the entry's chart that lifts the display.
type Target struct {
	Score      int     `json:"score" yaml:"score"`
	Delta      int     `json:"delta" yaml:"delta"`
	Outcome    string  `json:"outcome" yaml:"outcome"`
	NewDisplay float64 `json:"new_display" yaml:"new_display"`
}

// Requirements is the per-grade chart constant needed to gain one display step.
type Requirements struct {
	Scenario     string        `json:"scenario" yaml:"scenario"`
	NeededRating float64       `json:"needed_rating" yaml:"needed_rating"`
	Deficit      float64       `json:"deficit" yaml:"deficit"`
	TopMin       float64       `json:"top_min" yaml:"top_min"`
	RecentMin    float64       `json:"recent_min" yaml:"recent_min"`
	Grades       []Requirement `json:"grades" yaml:"grades"`
}

// Requirement is one row of Requirements.
type Requirement struct {
	Label      string  `json:"label" yaml:"label"`
	Offset     float64 `json:"offset" yaml:"offset"`
	Difficulty float64 `json:"difficulty" yaml:"difficulty"`
}

// RatingResult is the answer to a single rating query.
type RatingResult struct {
	Score    int     `json:"score" yaml:"score"`
	Constant float64 `json:"constant" yaml:"constant"`
	Grade    string  `json:"grade" yaml:"grade"`
	Rating   float64 `json:"rating" yaml:"rating"`
}

// TargetResult is the answer to a single target-score query. Target is nil
// when no score on the chart lifts the display.
type TargetResult struct {
	Constant     float64 `json:"constant" yaml:"constant"`
	CurrentScore int     `json:"current_score" yaml:"current_score"`
	Aggregate    float64 `json:"aggregate" yaml:"aggregate"`
	Display      float64 `json:"display" yaml:"display"`
	Target       *Target `json:"target" yaml:"target"`
}
