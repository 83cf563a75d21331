package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/mensylisir/ipsprint/config"
)

// Palette is the set of colours a theme is built from.
type Palette struct {
	Foreground string
	Accent     string
	Title      string
	Good       string
	Bad        string
	Warn       string
	Muted      string
	Border     string
}

// Dracula colours, used by the dark theme.
var draculaPalette = Palette{
	Foreground: "#F8F8F2",
	Accent:     "#8BE9FD",
	Title:      "#FF79C6",
	Good:       "#50FA7B",
	Bad:        "#FF5555",
	Warn:       "#F1FA8C",
	Muted:      "#6272A4",
	Border:     "#BD93F9",
}

var lightPalette = Palette{
	Foreground: "#282A36",
	Accent:     "#005F87",
	Title:      "#AF005F",
	Good:       "#008700",
	Bad:        "#D70000",
	Warn:       "#AF5F00",
	Muted:      "#808080",
	Border:     "#5F5FAF",
}

// Theme holds the lipgloss styles every screen renders with.
type Theme struct {
	Name string

	App    lipgloss.Style
	Title  lipgloss.Style
	Label  lipgloss.Style
	Text   lipgloss.Style
	Cursor lipgloss.Style
	Locked lipgloss.Style
	Good   lipgloss.Style
	Bad    lipgloss.Style
	Warn   lipgloss.Style
	Help   lipgloss.Style
	Box    lipgloss.Style
	Table  table.Styles
}

// NewTheme builds the named theme. Unknown names fall back to dark.
func NewTheme(name string) Theme {
	p := draculaPalette
	if name == config.ThemeLight {
		p = lightPalette
	} else {
		name = config.ThemeDark
	}

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(p.Border)).
		BorderBottom(true).
		Foreground(lipgloss.Color(p.Title)).
		Bold(true)
	ts.Cell = ts.Cell.Foreground(lipgloss.Color(p.Foreground))
	ts.Selected = ts.Selected.Foreground(lipgloss.Color(p.Accent)).Bold(true)

	return Theme{
		Name: name,
		App: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(p.Accent)).
			Foreground(lipgloss.Color(p.Foreground)),
		Title:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Title)).Bold(true),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warn)),
		Text:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Foreground)),
		Cursor: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Bold(true),
		Locked: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Strikethrough(true),
		Good:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Good)).Bold(true),
		Bad:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Bad)).Bold(true),
		Warn:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warn)),
		Help:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Box: lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)),
		Table: ts,
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == config.ThemeLight {
		return NewTheme(config.ThemeDark)
	}
	return NewTheme(config.ThemeLight)
}
