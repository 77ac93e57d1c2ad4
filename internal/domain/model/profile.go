// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/ptt/internal/domain/potential"
)

// Chart is one played chart as exported from the score page.
// Constant is nil when the chart constant could not be looked up.
type Chart struct {
	Title      string     `json:"songTitle" yaml:"songTitle"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
	Constant   *float64   `json:"constant" yaml:"constant"`
	Score      int        `json:"score" yaml:"score"`
	Rank       int        `json:"rank,omitempty" yaml:"rank,omitempty"`
	PlayPTT    *float64   `json:"playPTT,omitempty" yaml:"playPTT,omitempty"`
	CoverURL   string     `json:"coverUrl,omitempty" yaml:"coverUrl,omitempty"`
}

// HasConstant reports whether the chart can be rated.
func (c Chart) HasConstant() bool {
	return c.Constant != nil
}

// Player is the header of an exported profile. The numeric fields are the
// values shown at export time and are informational only.
type Player struct {
	Username    string    `json:"username" yaml:"username"`
	TotalPTT    *float64  `json:"totalPTT,omitempty" yaml:"totalPTT,omitempty"`
	Best30Avg   *float64  `json:"best30Avg,omitempty" yaml:"best30Avg,omitempty"`
	Recent10Avg *float64  `json:"recent10Avg,omitempty" yaml:"recent10Avg,omitempty"`
	ExportDate  time.Time `json:"exportDate,omitempty" yaml:"exportDate,omitempty"`
}

// Profile is a player's rating window. Either Best30/Recent10 are set, or
// Results holds a flat, rank-ordered list (see Normalize).
type Profile struct {
	Player   Player  `json:"player" yaml:"player"`
	Best30   []Chart `json:"best30" yaml:"best30"`
	Recent10 []Chart `json:"recent10" yaml:"recent10"`
	Results  []Chart `json:"results,omitempty" yaml:"results,omitempty"`
}

// Normalize splits a flat Results list into the two windows (first 30 top,
// next 10 recent, the rest dropped) when the windows are empty, and fills
// in missing ranks by position.
func (p *Profile) Normalize() {
	if len(p.Best30) == 0 && len(p.Recent10) == 0 && len(p.Results) > 0 {
		p.Best30, p.Recent10 = Partition(p.Results)
		p.Results = nil
	}
	fillRanks(p.Best30)
	fillRanks(p.Recent10)
}

// Empty reports whether the profile has no charts at all.
func (p *Profile) Empty() bool {
	return len(p.Best30) == 0 && len(p.Recent10) == 0 && len(p.Results) == 0
}

// Partition splits a rank-ordered list into the top and recent windows.
func Partition(results []Chart) (top, recent []Chart) {
	n := len(results)
	if n > potential.WindowSlots {
		n = potential.WindowSlots
	}
	if n <= potential.TopSlots {
		return append([]Chart(nil), results[:n]...), nil
	}
	top = append([]Chart(nil), results[:potential.TopSlots]...)
	recent = append([]Chart(nil), results[potential.TopSlots:n]...)
	return top, recent
}

func fillRanks(charts []Chart) {
	for i := range charts {
		if charts[i].Rank == 0 {
			charts[i].Rank = i + 1
		}
	}
}
