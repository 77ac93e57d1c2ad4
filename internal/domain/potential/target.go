package potential

import "math"

// exactTolerance is how close the new display must land to the target to
// count as a clean one-step raise.
const exactTolerance = 1e-4

// TargetOutcome classifies a target score search.
type TargetOutcome int

const (
	// NoSolution means no score in (current, MaxScore] reaches the target, the
	// current score is already a PM, or the input was invalid.
	NoSolution TargetOutcome = iota
	// Exact means the displayed potential rises by exactly one quantum.
	Exact
	// Overshoot means the smallest qualifying score raises the display by
	// more than one quantum. The score is still the minimum.
	Overshoot
)

// String implements fmt.Stringer.
func (o TargetOutcome) String() string {
	switch o {
	case Exact:
		return "exact"
	case Overshoot:
		return "overshoot"
	default:
		return "no_solution"
	}
}

// TargetResult is the answer to "what score on this chart raises my display
// potential by 0.01".
type TargetResult struct {
	Score      int
	Outcome    TargetOutcome
	Target     float64 // display value that had to be reached
	NewDisplay float64 // display value after playing Score
	Iterations int     // binary search steps taken
}

// Found reports whether a score was found.
func (r TargetResult) Found() bool { return r.Outcome != NoSolution }

// SolveTargetScore finds the smallest score above currentScore on a chart of
// the given constant that lifts DisplayRating(aggregate) by one Quantum when
// it replaces the current result's contribution to the aggregate.
func SolveTargetScore(constant float64, currentScore int, aggregate float64) TargetResult {
	if !finite(aggregate) || currentScore >= MaxScore {
		return TargetResult{Outcome: NoSolution}
	}
	current, ok := SingleResultRating(currentScore, constant)
	if !ok {
		return TargetResult{Outcome: NoSolution}
	}

	target := NextDisplay(aggregate)
	res := TargetResult{Outcome: NoSolution, Target: target}

	best := -1
	left, right := currentScore+1, MaxScore
	for left <= right {
		res.Iterations++
		mid := left + (right-left)/2
		if displayAfter(aggregate, current, mid, constant) >= target {
			best = mid
			right = mid - 1
		} else {
			left = mid + 1
		}
	}
	if best < 0 {
		return res
	}

	res.Score = best
	res.NewDisplay = displayAfter(aggregate, current, best, constant)
	res.Outcome = classifyTarget(res.NewDisplay, target)
	return res
}

// ReachesTarget reports whether playing candidate on the chart would lift the
// display to at least one quantum above the current display. It is the
// predicate SolveTargetScore searches on.
func ReachesTarget(constant float64, currentScore int, aggregate float64, candidate int) bool {
	current, ok := SingleResultRating(currentScore, constant)
	if !ok || !finite(aggregate) {
		return false
	}
	if _, ok := SingleResultRating(candidate, constant); !ok {
		return false
	}
	return displayAfter(aggregate, current, candidate, constant) >= NextDisplay(aggregate)
}

// displayAfter swaps one slot's contribution and truncates. The argument
// checks happen in the callers.
func displayAfter(aggregate, oldRating float64, score int, constant float64) float64 {
	newRating, _ := SingleResultRating(score, constant)
	return DisplayRating(aggregate - oldRating/WindowSlots + newRating/WindowSlots)
}

func classifyTarget(newDisplay, target float64) TargetOutcome {
	if math.Abs(newDisplay-target) < exactTolerance {
		return Exact
	}
	return Overshoot
}
