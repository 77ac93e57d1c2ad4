// Package potential computes play ratings and the aggregate potential (PTT)
// of a player, and solves for the score or chart constant needed to raise the
// displayed potential by one step.
//
// Every function in this package is pure: no shared state, no I/O, safe to
// call from any number of goroutines.
package potential

import (
	"math"

	"github.com/shopspring/decimal"
)

// Score and window constants.
const (
	// MaxScore is a pure memory (PM).
	MaxScore = 10_000_000
	// exScore is where the 200k-per-point band starts.
	exScore = 9_800_000
	// aaScore is where a chart rates exactly at its constant.
	aaScore = 9_500_000

	// TopSlots and RecentSlots are the sizes of the best and recent windows.
	TopSlots    = 30
	RecentSlots = 10
	// WindowSlots is the fixed divisor of the aggregate, regardless of how
	// many slots are filled.
	WindowSlots = TopSlots + RecentSlots

	// Quantum is the smallest visible change of the displayed potential.
	Quantum = 0.01
)

var (
	pmBonus    = decimal.NewFromInt(2)
	exBonus    = decimal.NewFromInt(1)
	exBase     = decimal.NewFromInt(exScore)
	aaBase     = decimal.NewFromInt(aaScore)
	exBandStep = decimal.NewFromInt(200_000)
	aaBandStep = decimal.NewFromInt(300_000)
)

// SingleResultRating returns the play rating of score on a chart with the
// given constant. ok is false when the score is outside [0, MaxScore] or the
// constant is negative or not finite.
//
//	score == 10,000,000             constant + 2
//	9,800,000 <= score < 10,000,000 constant + 1 + (score - 9,800,000) / 200,000
//	score < 9,800,000               constant + (score - 9,500,000) / 300,000, floored at 0
func SingleResultRating(score int, constant float64) (float64, bool) {
	if !ValidScore(score) || !ValidConstant(constant) {
		return 0, false
	}

	c := decimal.NewFromFloat(constant)
	s := decimal.NewFromInt(int64(score))

	var r decimal.Decimal
	switch {
	case score >= MaxScore:
		r = c.Add(pmBonus)
	case score >= exScore:
		r = c.Add(exBonus).Add(s.Sub(exBase).Div(exBandStep))
	default:
		r = c.Add(s.Sub(aaBase).Div(aaBandStep))
		if r.IsNegative() {
			r = decimal.Zero
		}
	}
	return r.InexactFloat64(), true
}

// DisplayRating truncates x to the two decimals shown to players.
// Non-finite input yields 0.
func DisplayRating(x float64) float64 {
	if !finite(x) {
		return 0
	}
	return math.Floor(x*100) / 100
}

// NextDisplay is the display value one Quantum above DisplayRating(x),
// snapped to the 0.01 grid so it compares equal to a truncated value.
func NextDisplay(x float64) float64 {
	return math.Round((DisplayRating(x)+Quantum)*100) / 100
}

// AggregateRating sums both windows and divides by WindowSlots.
func AggregateRating(top, recent []float64) float64 {
	return (sum(top) + sum(recent)) / WindowSlots
}

// WindowAverage is the mean of the filled slots of one window, 0 when empty.
func WindowAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// ValidScore reports whether score is in [0, MaxScore].
func ValidScore(score int) bool {
	return score >= 0 && score <= MaxScore
}

// ValidConstant reports whether constant is a usable chart constant.
func ValidConstant(constant float64) bool {
	return finite(constant) && constant >= 0
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
