package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/game"
	"github.com/mensylisir/ipsprint/store"
	xtime "github.com/mensylisir/ipsprint/time"
	"github.com/mensylisir/ipsprint/util"
)

func modeLabel(m common.Mode) string {
	if m == common.ModeMastery {
		return "maestría"
	}
	return "estándar"
}

func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenLogin:
		body = m.loginView()
	case screenMenu:
		body = m.menuView()
	case screenQuestion:
		body = m.questionView()
	case screenFeedback:
		body = m.feedbackView()
	case screenSummary:
		body = m.summaryView()
	case screenLeaderboard:
		body = m.leaderboardView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(body)
	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(m.theme.Warn.Render(m.status))
	}
	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(m.theme.Bad.Render("Error: " + m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys.screenHelp(m.screen)))
	return m.theme.App.Align(lipgloss.Left).Render(b.String())
}

func (m *Model) headerView() string {
	title := m.theme.Title.Render("IP Sprint")
	if user := m.user; user != "" {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			title,
			m.theme.Help.Render("  ·  "),
			m.theme.Label.Render(util.TruncateString(user, maxNameLength, "…")),
		)
	}
	return title
}

func (m *Model) loginView() string {
	if m.busy {
		return m.theme.Help.Render("Cargando progreso…")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Label.Render("¿Cómo te llamas?"),
		m.input.View(),
	)
}

func (m *Model) menuView() string {
	var b strings.Builder
	b.WriteString(m.theme.Label.Render("Elige nivel y modo:"))
	b.WriteString("\n\n")
	unlock := m.ctl.Settings().UnlockStreak
	for i, item := range m.menu {
		cursor := "  "
		if i == m.cursor {
			cursor = m.theme.Cursor.Render("› ")
		}
		label := fmt.Sprintf("%-13s %s", item.level, modeLabel(item.mode))
		switch {
		case item.locked:
			label = m.theme.Locked.Render(label) + m.theme.Help.Render("  bloqueado")
		case i == m.cursor:
			label = m.theme.Cursor.Render(label)
		default:
			label = m.theme.Text.Render(label)
		}
		if !item.locked && item.mode == common.ModeStandard {
			if _, ok := item.level.Next(); ok {
				label += m.theme.Help.Render(fmt.Sprintf("  racha %d/%d", item.streak, unlock))
			}
		}
		b.WriteString(cursor + label + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) progressLine() string {
	s := m.ctl.Session()
	if s == nil {
		return ""
	}
	head := fmt.Sprintf("%s · %s", s.Level, modeLabel(s.Mode))
	n := s.Asked
	if s.State == common.StateAsking {
		n++
	}
	if s.Mode == common.ModeMastery {
		return fmt.Sprintf("%s  ·  pregunta %d  ·  aciertos %d", head, n, s.Correct)
	}
	return fmt.Sprintf("%s  ·  pregunta %d/%d  ·  aciertos %d", head, n, m.ctl.Settings().Questions, s.Correct)
}

func (m *Model) questionView() string {
	q := m.question
	if q == nil {
		return ""
	}
	var opts strings.Builder
	for i, opt := range q.Options {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		if i == m.choice {
			opts.WriteString(m.theme.Cursor.Render("› " + line))
		} else {
			opts.WriteString(m.theme.Text.Render("  " + line))
		}
		if i < len(q.Options)-1 {
			opts.WriteString("\n")
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Help.Render(m.progressLine()),
		"",
		m.theme.Box.Render(m.theme.Text.Render(q.Prompt)),
		"",
		opts.String(),
	)
}

func (m *Model) feedbackView() string {
	fb := m.feedback
	verdict := m.theme.Good.Render("¡Correcto!")
	if !fb.Correct {
		verdict = lipgloss.JoinVertical(lipgloss.Left,
			m.theme.Bad.Render("Incorrecto"),
			m.theme.Text.Render("Respuesta correcta: ")+m.theme.Label.Render(fb.Answer),
		)
	}
	next := "enter → siguiente pregunta"
	if fb.Summary != nil {
		next = "enter → ver resumen"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Help.Render(m.progressLine()),
		"",
		verdict,
		"",
		m.theme.Box.Render(m.theme.Text.Render(fb.Explanation)),
		"",
		m.theme.Help.Render(next),
	)
}

func (m *Model) summaryView() string {
	s := m.summary
	if s == nil {
		return ""
	}
	rows := []string{
		m.theme.Title.Render(fmt.Sprintf("Ronda terminada: %s · %s", s.Level, modeLabel(s.Mode))),
		"",
		m.theme.Label.Render("Puntuación: ") + m.theme.Text.Render(fmt.Sprintf("%d/%d", s.Score, s.Asked)),
		m.theme.Label.Render("Precisión:  ") + m.theme.Text.Render(strconv.FormatFloat(s.Accuracy, 'f', 1, 64)+"%"),
		m.theme.Label.Render("Tiempo:     ") + m.theme.Text.Render(fmt.Sprintf("%s (%s por pregunta)",
			xtime.ShortDur(s.Elapsed), xtime.ShortDur(s.PerQuestion))),
	}
	if s.NewHighScore {
		rows = append(rows, "", m.theme.Good.Render("¡Nuevo récord!"))
	}
	if s.Mode == common.ModeStandard {
		if s.Perfect {
			rows = append(rows, m.theme.Good.Render("Ronda perfecta"))
		}
		if _, ok := s.Level.Next(); ok && s.Unlocked == "" {
			rows = append(rows, m.theme.Help.Render(fmt.Sprintf("Racha perfecta: %d/%d", s.Streak, m.ctl.Settings().UnlockStreak)))
		}
	}
	if s.Unlocked != "" {
		rows = append(rows, "", m.theme.Good.Render(fmt.Sprintf("¡Has desbloqueado %s!", s.Unlocked)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) leaderboardView() string {
	if len(m.board.Rows()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.theme.Title.Render("Récords"),
			"",
			m.theme.Help.Render("Todavía no hay récords."),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("Récords"),
		"",
		m.board.View(),
	)
}

// ScoreColumns lists the leaderboard keys in display order.
func ScoreColumns() []string {
	var keys []string
	seen := map[string]bool{}
	for _, level := range common.Levels {
		for _, mode := range game.Modes(level) {
			k := store.ScoreKey(level, mode)
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// ScoreRows lays the leaderboard out as rows under ScoreColumns, in the order
// players first scored. Missing scores show as "-".
func ScoreRows(scores []store.HighScore) [][]string {
	cols := ScoreColumns()
	rows := make([][]string, 0, len(scores))
	for _, hs := range scores {
		row := []string{util.TruncateString(hs.Name, nameColumnWidth, "…")}
		for _, k := range cols {
			if v, ok := hs.Best(k); ok {
				row = append(row, strconv.Itoa(v))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func newBoard(scores []store.HighScore, theme Theme) table.Model {
	columns := []table.Column{{Title: "Jugador", Width: nameColumnWidth}}
	for _, k := range ScoreColumns() {
		columns = append(columns, table.Column{Title: k, Width: scoreColumnWidth})
	}
	var rows []table.Row
	for _, r := range ScoreRows(scores) {
		rows = append(rows, table.Row(r))
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(boardHeight),
	)
	t.SetStyles(theme.Table)
	return t
}
