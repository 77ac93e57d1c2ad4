package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/okian/ptt/internal/domain/potential"
	"github.com/okian/ptt/internal/domain/types"
)

const outcomeOvershoot = "overshoot"

type textRenderer struct {
	color bool
	theme Theme
}

func (t *textRenderer) Report(w io.Writer, r *types.Report) error {
	st := t.theme.styles(t.color)
	var b strings.Builder

	player := r.Player
	if player == "" {
		player = "unknown player"
	}
	fmt.Fprintf(&b, "%s  PTT %s %s  B30 %s  R10 %s\n",
		st.title.Render(player),
		st.value.Render(potential.FormatDisplay(r.Aggregate)),
		st.muted.Render("("+potential.FormatRating(r.Aggregate)+")"),
		potential.FormatRating(r.TopAverage),
		potential.FormatRating(r.RecentAverage),
	)
	if r.Source != "" {
		b.WriteString(st.muted.Render(r.Source) + "\n")
	}

	if len(r.Entries) > 0 {
		b.WriteString(t.entryTable(st, r.Entries))
		b.WriteString("\n")
	}
	if r.Unrated > 0 {
		b.WriteString(st.muted.Render(fmt.Sprintf("%d chart(s) without a known constant were not rated", r.Unrated)) + "\n")
	}
	if r.Requirements != nil {
		b.WriteString(t.requiredBlock(st, r.Requirements))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (t *textRenderer) entryTable(st styles, entries []types.Entry) string {
	rows := make([][]string, 0, len(entries))
	overshoot := make(map[int]bool)
	for i, e := range entries {
		constant, rating, target := "-", "-", "-"
		if e.Constant != nil {
			constant = potential.FormatConstant(*e.Constant)
		}
		if e.Rating != nil {
			rating = potential.FormatRating(*e.Rating)
		}
		if e.Target != nil {
			target = fmt.Sprintf("%s (+%s)", potential.FormatScore(e.Target.Score), potential.FormatScore(e.Target.Delta))
			if e.Target.Outcome == outcomeOvershoot {
				target += " !"
				overshoot[i] = true
			}
		}
		window := "B"
		if e.Window == types.WindowRecent {
			window = "R"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%s%d", window, e.Rank),
			e.Title,
			e.Difficulty,
			constant,
			potential.FormatScore(e.Score),
			e.Grade,
			rating,
			target,
		})
	}

	const targetCol = 7
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.border).
		Headers("#", "Title", "Diff", "Const", "Score", "Grade", "Rating", "Target").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case col == targetCol && overshoot[row]:
				return st.cell.Inherit(st.warning)
			case col == targetCol:
				return st.cell.Inherit(st.good)
			default:
				return st.cell
			}
		})
	return tbl.String()
}

func (t *textRenderer) requiredBlock(st styles, req *types.Requirements) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n",
		st.title.Render("Next +0.01:"),
		st.muted.Render(fmt.Sprintf("play rating %s needed (%s)", potential.FormatRating(req.NeededRating), req.Scenario)),
	)
	parts := make([]string, 0, len(req.Grades))
	for _, g := range req.Grades {
		parts = append(parts, fmt.Sprintf("%s %s", st.value.Render(g.Label), potential.FormatConstant(g.Difficulty)))
	}
	b.WriteString("  " + strings.Join(parts, "  ") + "\n")
	return b.String()
}

func (t *textRenderer) Rating(w io.Writer, r types.RatingResult) error {
	st := t.theme.styles(t.color)
	_, err := fmt.Fprintf(w, "%s on %s (%s): %s\n",
		potential.FormatScore(r.Score),
		potential.FormatConstant(r.Constant),
		r.Grade,
		st.value.Render(potential.FormatRating(r.Rating)),
	)
	return err
}

func (t *textRenderer) Target(w io.Writer, r types.TargetResult) error {
	st := t.theme.styles(t.color)
	if r.Target == nil {
		_, err := fmt.Fprintf(w, "%s\n", st.muted.Render(fmt.Sprintf(
			"no score on %s above %s lifts %s",
			potential.FormatConstant(r.Constant), potential.FormatScore(r.CurrentScore), potential.FormatDisplay(r.Aggregate),
		)))
		return err
	}
	score := st.good.Render(potential.FormatScore(r.Target.Score))
	note := ""
	if r.Target.Outcome == outcomeOvershoot {
		score = st.warning.Render(potential.FormatScore(r.Target.Score))
		note = " " + st.warning.Render("(skips past the next step)")
	}
	_, err := fmt.Fprintf(w, "%s (+%s): %s -> %s%s\n",
		score,
		potential.FormatScore(r.Target.Delta),
		potential.FormatDisplay(r.Aggregate),
		potential.FormatDisplay(r.Target.NewDisplay),
		note,
	)
	return err
}

func (t *textRenderer) Required(w io.Writer, r *types.Requirements) error {
	_, err := io.WriteString(w, t.requiredBlock(t.theme.styles(t.color), r))
	return err
}
