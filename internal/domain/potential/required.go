package potential

import "math"

// Grade is a score threshold on a new chart together with the rating it adds
// on top of the chart constant (the inverse of SingleResultRating at
// Threshold).
type Grade struct {
	Label     string
	Threshold int
	Offset    float64
}

// gradeTable is ordered from near-perfect down to a moderate clear. The
// 970W and 960W offsets are 2/3 and 1/3 rounded to three places.
var gradeTable = [...]Grade{
	{Label: "995W", Threshold: 9_950_000, Offset: 1.75},
	{Label: "EX+", Threshold: 9_900_000, Offset: 1.5},
	{Label: "EX", Threshold: 9_800_000, Offset: 1.0},
	{Label: "970W", Threshold: 9_700_000, Offset: 0.667},
	{Label: "960W", Threshold: 9_600_000, Offset: 0.333},
	{Label: "AA", Threshold: 9_500_000, Offset: 0.0},
}

// Grades returns a copy of the grade table.
func Grades() []Grade {
	out := make([]Grade, len(gradeTable))
	copy(out, gradeTable[:])
	return out
}

// Scenario names which window minimum a new result would displace.
type Scenario int

const (
	ScenarioNone Scenario = iota
	ScenarioRecentOnly
	ScenarioTopOnly
	ScenarioBoth
	ScenarioFallback
)

// String implements fmt.Stringer.
func (s Scenario) String() string {
	switch s {
	case ScenarioRecentOnly:
		return "recent_only"
	case ScenarioTopOnly:
		return "top_only"
	case ScenarioBoth:
		return "both"
	case ScenarioFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Requirement is the lowest chart constant on which reaching Label would
// raise the displayed potential by one quantum.
type Requirement struct {
	Label              string
	Offset             float64
	RequiredDifficulty float64
}

// RequiredResult holds the six requirements plus how they were derived.
type RequiredResult struct {
	Requirements []Requirement
	NeededRating float64 // play rating the new result must reach
	Deficit      float64 // rating sum missing to the next display step
	Scenario     Scenario
	TopMin       float64
	RecentMin    float64
}

// SolveRequiredDifficulties computes, for each grade in the table, the lowest
// constant (rounded up to one decimal) of a not-yet-played chart on which
// that grade would raise DisplayRating(aggregate) by one Quantum.
//
// ok is false when aggregate or any window value is not finite.
func SolveRequiredDifficulties(aggregate float64, top, recent []float64) (RequiredResult, bool) {
	if !finite(aggregate) || !allFinite(top) || !allFinite(recent) {
		return RequiredResult{}, false
	}

	deficit := WindowSlots * (NextDisplay(aggregate) - aggregate)
	b := minOrZero(top)
	r := minOrZero(recent)

	needed := math.Inf(1)
	scenario := ScenarioFallback

	// The new result only pushes out the weakest recent entry.
	if x := r + deficit; x <= b && x < needed {
		needed, scenario = x, ScenarioRecentOnly
	}
	// The new result only pushes out the weakest top entry.
	if x := b + deficit; x <= r && x < needed {
		needed, scenario = x, ScenarioTopOnly
	}
	// The new result enters both windows at once.
	if x := (b + r + deficit) / 2; x >= b && x >= r && x < needed {
		needed, scenario = x, ScenarioBoth
	}
	if math.IsInf(needed, 1) {
		needed, scenario = math.Max(b, r)+deficit, ScenarioFallback
	}

	reqs := make([]Requirement, len(gradeTable))
	for i, g := range gradeTable {
		reqs[i] = Requirement{
			Label:              g.Label,
			Offset:             g.Offset,
			RequiredDifficulty: ceilTenth(needed - g.Offset),
		}
	}

	return RequiredResult{
		Requirements: reqs,
		NeededRating: needed,
		Deficit:      deficit,
		Scenario:     scenario,
		TopMin:       b,
		RecentMin:    r,
	}, true
}

func ceilTenth(x float64) float64 {
	v := math.Ceil(x*10) / 10
	if v == 0 {
		return 0 // drop negative zero
	}
	return v
}

func minOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if !finite(v) {
			return false
		}
	}
	return true
}
