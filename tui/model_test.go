package tui

import (
	"context"
	"math/rand/v2"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/config"
	"github.com/mensylisir/ipsprint/game"
	"github.com/mensylisir/ipsprint/question"
	"github.com/mensylisir/ipsprint/store"
)

func fixed(level common.Level) question.Entry {
	return question.Entry{Kind: "fixed", Options: 2, Generate: func(*question.Generator) (*question.Question, error) {
		return &question.Question{
			Kind:        "fixed",
			Level:       level,
			Prompt:      "¿10.0.0.1 es privada?",
			Options:     []string{"Pública", "Privada"},
			Answer:      "Privada",
			Explanation: "10.0.0.0/8 es un bloque privado.",
		}, nil
	}}
}

func newModel(t *testing.T, questions int) (*Model, store.Store) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	d := question.NewDispatcher(question.NewGenerator(rand.New(rand.NewPCG(3, 4)), nil),
		question.WithPool(common.LevelEntry, []question.Entry{fixed(common.LevelEntry)}),
		question.WithPool(common.LevelAssociate, []question.Entry{fixed(common.LevelAssociate)}),
	)
	settings := game.Settings{Questions: questions, UnlockStreak: 3, MaxDispatchAttempts: 2}
	return New(game.NewController(st, d, settings), st), st
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

// send feeds msg to the model and then the message its command produces, the
// way the bubbletea runtime would for a single synchronous command.
func send(t *testing.T, m *Model, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := m.Update(msg)
	if cmd == nil {
		return nil
	}
	switch out := cmd().(type) {
	case loggedInMsg, scoresMsg:
		_, next := m.Update(out)
		return next
	}
	return cmd
}

// press delivers msg without running the command it returns. Used for
// typing, where the text input answers with a cursor blink timer.
func press(m *Model, msg tea.Msg) {
	m.Update(msg)
}

func login(t *testing.T, m *Model, name string) {
	t.Helper()
	press(m, runes(name))
	send(t, m, enter)
	require.Equal(t, screenMenu, m.screen)
}

func TestModel_Login(t *testing.T) {
	m, _ := newModel(t, 2)
	assert.Contains(t, m.View(), "¿Cómo te llamas?")

	send(t, m, enter)
	assert.Equal(t, screenLogin, m.screen)
	assert.Error(t, m.err)

	login(t, m, "ana")
	assert.NoError(t, m.err)
	assert.Equal(t, "ana", m.ctl.User())
	require.Len(t, m.menu, 4)
	assert.False(t, m.menu[0].locked)
	assert.False(t, m.menu[1].locked)
	assert.Equal(t, common.ModeMastery, m.menu[1].mode)
	assert.True(t, m.menu[2].locked)
	assert.True(t, m.menu[3].locked)
	assert.Contains(t, m.View(), "bloqueado")
}

func TestModel_AutoLogin(t *testing.T) {
	m, _ := newModel(t, 2)
	WithUser(" luis ")(m)
	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	m.Update(cmd())
	assert.Equal(t, screenMenu, m.screen)
	assert.Equal(t, "luis", m.ctl.User())
}

func TestModel_LockedLevelShowsDiagnostic(t *testing.T) {
	m, _ := newModel(t, 2)
	login(t, m, "ana")
	send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	send(t, m, enter)
	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.status, "bloqueado")
}

func TestModel_ProfessionalHasNoQuestions(t *testing.T) {
	m, st := newModel(t, 2)
	p := store.DefaultProgress()
	p.Unlock(common.LevelAssociate)
	p.Unlock(common.LevelProfessional)
	require.NoError(t, st.SaveUserProgress(context.Background(), "ana", p))

	login(t, m, "ana")
	m.cursor = len(m.menu) - 1
	send(t, m, enter)
	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.status, "Professional todavía no tiene preguntas")
	assert.Nil(t, m.ctl.Session())
}

func TestModel_PlayRound(t *testing.T) {
	m, _ := newModel(t, 2)
	login(t, m, "ana")

	send(t, m, enter)
	require.Equal(t, screenQuestion, m.screen)
	view := m.View()
	assert.Contains(t, view, "¿10.0.0.1 es privada?")
	assert.Contains(t, view, "pregunta 1/2")

	// wrong answer by number
	send(t, m, runes("1"))
	require.Equal(t, screenFeedback, m.screen)
	assert.False(t, m.feedback.Correct)
	assert.Contains(t, m.View(), "Respuesta correcta")

	send(t, m, enter)
	require.Equal(t, screenQuestion, m.screen)
	send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	send(t, m, enter)
	require.Equal(t, screenFeedback, m.screen)
	assert.True(t, m.feedback.Correct)
	require.NotNil(t, m.summary)
	assert.Contains(t, m.View(), "ver resumen")

	send(t, m, enter)
	require.Equal(t, screenSummary, m.screen)
	view = m.View()
	assert.Contains(t, view, "1/2")
	assert.Contains(t, view, "50.0%")
	assert.Contains(t, view, "¡Nuevo récord!")

	send(t, m, runes("l"))
	require.Equal(t, screenLeaderboard, m.screen)
	assert.Contains(t, m.View(), "ana")

	send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenMenu, m.screen)
}

func TestModel_QuitRound(t *testing.T) {
	m, _ := newModel(t, 5)
	login(t, m, "ana")
	send(t, m, enter)
	require.Equal(t, screenQuestion, m.screen)

	send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenMenu, m.screen)
	assert.Nil(t, m.ctl.Session())
	assert.Equal(t, "Ronda abandonada.", m.status)
}

func TestModel_ThemeToggleAndLogout(t *testing.T) {
	m, _ := newModel(t, 2)
	login(t, m, "ana")
	assert.Equal(t, config.ThemeDark, m.theme.Name)

	send(t, m, runes("t"))
	assert.Equal(t, config.ThemeLight, m.theme.Name)
	send(t, m, runes("t"))
	assert.Equal(t, config.ThemeDark, m.theme.Name)

	send(t, m, runes("o"))
	assert.Equal(t, screenLogin, m.screen)
	assert.Empty(t, m.ctl.User())
	assert.Empty(t, m.input.Value())
}

func TestModel_BusyIgnoresKeys(t *testing.T) {
	m, _ := newModel(t, 2)
	press(m, runes("ana"))
	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	require.True(t, m.busy)

	m.Update(runes("x"))
	assert.Equal(t, "ana", m.input.Value())

	_, quit := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, quit)
	assert.Equal(t, tea.QuitMsg{}, quit())
}

func TestModel_AnswerRunsOnUpdateLoop(t *testing.T) {
	m, _ := newModel(t, 2)
	login(t, m, "ana")
	send(t, m, enter)
	require.Equal(t, screenQuestion, m.screen)

	_, cmd := m.Update(runes("2"))
	assert.Nil(t, cmd, "no command may touch the round behind View's back")
	assert.False(t, m.busy)
	require.Equal(t, screenFeedback, m.screen)
	assert.True(t, m.feedback.Correct)
	assert.Equal(t, 1, m.ctl.Session().Asked)
}

func TestModel_ViewWhileLoggingIn(t *testing.T) {
	m, _ := newModel(t, 2)
	press(m, runes("ana"))
	_, cmd := m.Update(enter)
	require.NotNil(t, cmd)

	done := make(chan tea.Msg)
	go func() { done <- cmd() }()
	var msg tea.Msg
	for msg == nil {
		select {
		case msg = <-done:
		default:
			assert.Contains(t, m.View(), "Cargando progreso")
		}
	}
	m.Update(msg)
	assert.Equal(t, screenMenu, m.screen)
	assert.Contains(t, m.View(), "ana")
}

func TestModel_ViewIsPure(t *testing.T) {
	m, _ := newModel(t, 2)
	login(t, m, "ana")
	send(t, m, enter)
	before := m.View()
	assert.Equal(t, before, m.View())
	assert.Equal(t, screenQuestion, m.screen)
	assert.Equal(t, common.StateAsking, m.ctl.Session().State)
}

func TestScoreRows(t *testing.T) {
	assert.Equal(t, []string{"Entry-standard", "Entry-mastery", "Associate-standard", "Professional-standard"}, ScoreColumns())

	rows := ScoreRows([]store.HighScore{
		{Name: "ana", Scores: map[string]int{"Entry-standard": 9}},
		{Name: "un nombre larguísimo de verdad", Scores: map[string]int{"Entry-mastery": 21, "Associate-standard": 4}},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ana", "9", "-", "-", "-"}, rows[0])
	assert.Equal(t, []string{"21", "4", "-"}, rows[1][2:])
	assert.LessOrEqual(t, len([]rune(rows[1][0])), nameColumnWidth)
}

func TestNewTheme(t *testing.T) {
	assert.Equal(t, config.ThemeDark, NewTheme("neon").Name)
	assert.Equal(t, config.ThemeLight, NewTheme(config.ThemeLight).Name)
	assert.Equal(t, config.ThemeLight, NewTheme(config.ThemeDark).Toggle().Name)
}
