package potential

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Score grade lower bounds, highest first.
var scoreGrades = [...]struct {
	label string
	min   int
}{
	{"PM", MaxScore},
	{"EX+", 9_900_000},
	{"EX", exScore},
	{"AA", aaScore},
	{"A", 9_200_000},
	{"B", 8_900_000},
	{"C", 8_600_000},
}

// ScoreGrade returns the letter grade shown for a score.
func ScoreGrade(score int) string {
	for _, g := range scoreGrades {
		if score >= g.min {
			return g.label
		}
	}
	return "D"
}

var scorePrinter = message.NewPrinter(language.English)

// FormatScore renders a score with thousands separators, e.g. 9,950,000.
func FormatScore(score int) string {
	return scorePrinter.Sprintf("%d", score)
}

// FormatConstant renders a chart constant with one decimal.
func FormatConstant(constant float64) string {
	return strconv.FormatFloat(constant, 'f', 1, 64)
}

// FormatRating renders a precise rating with four decimals.
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', 4, 64)
}

// FormatDisplay renders a display rating with two decimals.
func FormatDisplay(rating float64) string {
	return strconv.FormatFloat(DisplayRating(rating), 'f', 2, 64)
}
