package render

import "github.com/charmbracelet/lipgloss"

// Theme holds the color scheme for text output.
type Theme struct {
	Accent  lipgloss.Color
	Good    lipgloss.Color
	Warning lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
}

// DefaultTheme is used unless WithTheme is given.
var DefaultTheme = Theme{
	Accent:  lipgloss.Color("#5FAFD7"),
	Good:    lipgloss.Color("#00D787"),
	Warning: lipgloss.Color("#FFAF00"),
	Muted:   lipgloss.Color("#6C6C6C"),
	Border:  lipgloss.Color("#3A3A3A"),
}

type styles struct {
	title   lipgloss.Style
	value   lipgloss.Style
	good    lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
}

func (t Theme) styles(color bool) styles {
	cell := lipgloss.NewStyle().Padding(0, 1)
	if !color {
		plain := lipgloss.NewStyle()
		return styles{
			title: plain, value: plain, good: plain, warning: plain, muted: plain,
			header: cell, cell: cell, border: plain,
		}
	}
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		value:   lipgloss.NewStyle().Bold(true),
		good:    lipgloss.NewStyle().Foreground(t.Good),
		warning: lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		header:  cell.Bold(true).Foreground(t.Accent),
		cell:    cell,
		border:  lipgloss.NewStyle().Foreground(t.Border),
	}
}
