package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Back        key.Binding
	Leaderboard key.Binding
	Theme       key.Binding
	Logout      key.Binding
	Quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "arriba"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "abajo"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "elegir"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "volver"),
		),
		Leaderboard: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "récords"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tema"),
		),
		Logout: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "cambiar jugador"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "salir"),
		),
	}
}

// helpFor adapts the bindings active on one screen to help.KeyMap.
type helpFor []key.Binding

func (h helpFor) ShortHelp() []key.Binding  { return h }
func (h helpFor) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (k keyMap) screenHelp(s screen) helpFor {
	switch s {
	case screenMenu:
		return helpFor{k.Up, k.Down, k.Select, k.Leaderboard, k.Theme, k.Logout, k.Quit}
	case screenQuestion:
		return helpFor{k.Up, k.Down, k.Select, k.Back}
	case screenFeedback:
		return helpFor{k.Select, k.Back}
	case screenSummary:
		return helpFor{k.Select, k.Leaderboard}
	case screenLeaderboard:
		return helpFor{k.Up, k.Down, k.Back}
	}
	return helpFor{k.Select, k.Quit}
}
