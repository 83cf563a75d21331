// Package tui is the terminal front end of the game, built on bubbletea.
// The model only keeps presentation state; round state lives in the
// game.Controller it drives, and View never changes either.
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/config"
	"github.com/mensylisir/ipsprint/game"
	"github.com/mensylisir/ipsprint/logger"
	"github.com/mensylisir/ipsprint/question"
	"github.com/mensylisir/ipsprint/store"
)

type screen int

const (
	screenLogin screen = iota
	screenMenu
	screenQuestion
	screenFeedback
	screenSummary
	screenLeaderboard
)

const (
	maxNameLength    = 24
	inputWidth       = 30
	nameColumnWidth  = 18
	scoreColumnWidth = 14
	boardHeight      = 12
)

// ScoreSource is what the leaderboard screen reads from.
type ScoreSource interface {
	LoadHighScores(ctx context.Context) ([]store.HighScore, error)
}

type menuItem struct {
	level  common.Level
	mode   common.Mode
	locked bool
	streak int
}

// Model is the bubbletea model of the whole game.
type Model struct {
	ctx    context.Context
	ctl    *game.Controller
	scores ScoreSource
	log    *logrus.Entry

	keys  keyMap
	help  help.Model
	theme Theme

	screen   screen
	input    textinput.Model
	autoUser string
	user     string
	menu     []menuItem
	cursor   int

	question *question.Question
	choice   int
	feedback game.Feedback
	summary  *game.Summary
	board    table.Model

	status string
	err    error
	busy   bool
}

// Option customizes a Model.
type Option func(*Model)

// WithUser logs name in as soon as the program starts.
func WithUser(name string) Option {
	return func(m *Model) {
		m.autoUser = strings.TrimSpace(name)
	}
}

// WithTheme selects the initial theme by name.
func WithTheme(name string) Option {
	return func(m *Model) {
		m.theme = NewTheme(name)
	}
}

// WithContext sets the context store calls run with.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

func New(ctl *game.Controller, scores ScoreSource, opts ...Option) *Model {
	in := textinput.New()
	in.Placeholder = "tu nombre"
	in.CharLimit = maxNameLength
	in.Width = inputWidth
	in.Focus()

	m := &Model{
		ctx:    context.Background(),
		ctl:    ctl,
		scores: scores,
		log:    logger.Log.ForGenerator("tui"),
		keys:   newKeyMap(),
		help:   help.New(),
		theme:  NewTheme(config.DefaultTheme),
		screen: screenLogin,
		input:  in,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.styleInput()
	return m
}

func (m *Model) styleInput() {
	m.input.PromptStyle = m.theme.Cursor
	m.input.TextStyle = m.theme.Text
	m.input.PlaceholderStyle = m.theme.Help
	m.help.Styles.ShortKey = m.theme.Label
	m.help.Styles.ShortDesc = m.theme.Help
	m.help.Styles.ShortSeparator = m.theme.Help
}

type loggedInMsg struct {
	user     string
	progress store.UserProgress
	err      error
}

type scoresMsg struct {
	scores []store.HighScore
	err    error
}

func (m *Model) Init() tea.Cmd {
	if m.autoUser != "" {
		m.input.SetValue(m.autoUser)
		m.busy = true
		return m.loginCmd(m.autoUser)
	}
	return textinput.Blink
}

func (m *Model) loginCmd(name string) tea.Cmd {
	ctx, ctl := m.ctx, m.ctl
	return func() tea.Msg {
		p, err := ctl.Login(ctx, name)
		return loggedInMsg{user: ctl.User(), progress: p, err: err}
	}
}

func (m *Model) scoresCmd() tea.Cmd {
	ctx, src := m.ctx, m.scores
	return func() tea.Msg {
		scores, err := src.LoadHighScores(ctx)
		return scoresMsg{scores: scores, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case loggedInMsg:
		return m.handleLoggedIn(msg)
	case scoresMsg:
		return m.handleScores(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.screen == screenLogin {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenMenu:
		return m.updateMenu(msg)
	case screenQuestion:
		return m.updateQuestion(msg)
	case screenFeedback:
		return m.updateFeedback(msg)
	case screenSummary:
		return m.updateSummary(msg)
	case screenLeaderboard:
		return m.updateLeaderboard(msg)
	}
	return m, nil
}

func (m *Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // the text input handles every other key
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.err = errors.New("escribe un nombre para empezar")
			return m, nil
		}
		m.err = nil
		m.busy = true
		return m, m.loginCmd(name)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleLoggedIn(msg loggedInMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("login failed")
		m.err = msg.err
		return m, nil
	}
	m.err = nil
	m.status = ""
	m.user = msg.user
	m.input.Blur()
	m.cursor = 0
	m.showMenu()
	return m, nil
}

func (m *Model) showMenu() {
	m.menu = buildMenu(m.ctl.Progress())
	if m.cursor >= len(m.menu) {
		m.cursor = 0
	}
	m.question = nil
	m.screen = screenMenu
}

func buildMenu(p store.UserProgress) []menuItem {
	var items []menuItem
	for _, level := range common.Levels {
		for _, mode := range game.Modes(level) {
			items = append(items, menuItem{
				level:  level,
				mode:   mode,
				locked: !p.IsUnlocked(level),
				streak: p.Streak(level),
			})
		}
	}
	return items
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.menu)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		return m.startSelected()
	case key.Matches(msg, m.keys.Leaderboard):
		m.busy = true
		return m, m.scoresCmd()
	case key.Matches(msg, m.keys.Theme):
		m.theme = m.theme.Toggle()
		m.styleInput()
	case key.Matches(msg, m.keys.Logout):
		m.ctl.Logout()
		m.user = ""
		m.input.Reset()
		m.input.Focus()
		m.status = ""
		m.screen = screenLogin
		return m, textinput.Blink
	}
	return m, nil
}

func (m *Model) startSelected() (tea.Model, tea.Cmd) {
	if len(m.menu) == 0 {
		return m, nil
	}
	item := m.menu[m.cursor]
	if _, err := m.ctl.Start(item.level, item.mode); err != nil {
		m.status = m.describe(err, item.level)
		return m, nil
	}
	m.status = ""
	m.summary = nil
	return m.nextQuestion()
}

func (m *Model) nextQuestion() (tea.Model, tea.Cmd) {
	q, err := m.ctl.Next()
	if err != nil {
		level := common.Level("")
		if s := m.ctl.Session(); s != nil {
			level = s.Level
		}
		m.ctl.Quit()
		m.status = m.describe(err, level)
		m.showMenu()
		return m, nil
	}
	m.question = q
	m.choice = 0
	m.screen = screenQuestion
	return m, nil
}

// describe turns controller errors into the diagnostic shown on the menu.
func (m *Model) describe(err error, level common.Level) string {
	switch {
	case errors.Is(err, question.ErrEmptyPool):
		return level.String() + " todavía no tiene preguntas. ¡Vuelve pronto!"
	case errors.Is(err, game.ErrLevelLocked):
		return "Nivel bloqueado: consigue " + strconv.Itoa(m.ctl.Settings().UnlockStreak) +
			" rondas perfectas seguidas en el nivel anterior."
	case errors.Is(err, game.ErrModeUnavailable):
		return "Ese modo no está disponible en " + level.String() + "."
	case errors.Is(err, game.ErrNoQuestion):
		return "No se pudo generar una pregunta. Inténtalo de nuevo."
	}
	m.log.WithError(err).Error("unexpected error")
	return err.Error()
}

func (m *Model) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.question == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.ctl.Quit()
		m.status = "Ronda abandonada."
		m.showMenu()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.choice > 0 {
			m.choice--
		}
	case key.Matches(msg, m.keys.Down):
		if m.choice < len(m.question.Options)-1 {
			m.choice++
		}
	case key.Matches(msg, m.keys.Select):
		return m.choose(m.choice)
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.question.Options) {
			return m.choose(n - 1)
		}
	}
	return m, nil
}

// choose answers on the update loop, like Start and Next, so View never reads
// a session that is being scored.
func (m *Model) choose(i int) (tea.Model, tea.Cmd) {
	m.choice = i
	fb, err := m.ctl.Answer(m.ctx, m.question.Options[i])
	if err != nil {
		m.status = m.describe(err, "")
		m.ctl.Quit()
		m.showMenu()
		return m, nil
	}
	m.feedback = fb
	m.summary = fb.Summary
	m.screen = screenFeedback
	return m, nil
}

func (m *Model) updateFeedback(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		if m.summary != nil {
			m.screen = screenSummary
			return m, nil
		}
		return m.nextQuestion()
	case key.Matches(msg, m.keys.Back):
		if m.summary != nil {
			m.screen = screenSummary
			return m, nil
		}
		m.ctl.Quit()
		m.status = "Ronda abandonada."
		m.showMenu()
	}
	return m, nil
}

func (m *Model) updateSummary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Back):
		m.showMenu()
	case key.Matches(msg, m.keys.Leaderboard):
		m.busy = true
		return m, m.scoresCmd()
	}
	return m, nil
}

func (m *Model) handleScores(msg scoresMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("failed to load high scores")
		m.status = "No se pudieron cargar los récords."
		m.showMenu()
		return m, nil
	}
	m.board = newBoard(msg.scores, m.theme)
	m.screen = screenLeaderboard
	return m, nil
}

func (m *Model) updateLeaderboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Select) || key.Matches(msg, m.keys.Quit) {
		m.showMenu()
		return m, nil
	}
	var cmd tea.Cmd
	m.board, cmd = m.board.Update(msg)
	return m, cmd
}
