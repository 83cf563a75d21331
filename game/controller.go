package game

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/logger"
	"github.com/mensylisir/ipsprint/question"
	"github.com/mensylisir/ipsprint/store"
	xtime "github.com/mensylisir/ipsprint/time"
	"github.com/mensylisir/ipsprint/util"
)

// Controller drives one player's rounds. It is not safe for concurrent use;
// the TUI calls it from its single update loop.
type Controller struct {
	store      store.Store
	dispatcher *question.Dispatcher
	settings   Settings
	now        func() time.Time

	user     string
	progress store.UserProgress
	session  *Session
	log      *logrus.Entry
}

// Option customizes a Controller.
type Option func(*Controller)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func NewController(st store.Store, d *question.Dispatcher, settings Settings, opts ...Option) *Controller {
	if d == nil {
		d = question.NewDispatcher(nil)
	}
	c := &Controller{
		store:      st,
		dispatcher: d,
		settings:   settings,
		now:        time.Now,
		log:        logger.Log.ForGenerator("game"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login loads the progress of username, creating defaults for new players.
func (c *Controller) Login(ctx context.Context, username string) (store.UserProgress, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return store.UserProgress{}, errors.New("username is empty")
	}
	p, err := c.store.LoadUserProgress(ctx, username)
	if err != nil {
		return store.UserProgress{}, errors.Wrapf(err, "failed to load progress of %s", username)
	}
	c.user = username
	c.progress = p
	c.session = nil
	c.log = logger.Log.ForSession("", username)
	c.log.Infof("logged in, unlocked %v", p.UnlockedLevels)
	return p, nil
}

// Logout forgets the current player and any unfinished round.
func (c *Controller) Logout() {
	if c.session != nil && c.session.State != common.StateFinished {
		c.log.Info("round abandoned on logout")
	}
	c.user = ""
	c.progress = store.UserProgress{}
	c.session = nil
}

func (c *Controller) User() string                 { return c.user }
func (c *Controller) Progress() store.UserProgress { return c.progress }
func (c *Controller) Session() *Session            { return c.session }
func (c *Controller) Settings() Settings           { return c.settings }

// Modes lists the modes a level can be played in.
func Modes(level common.Level) []common.Mode {
	if level == common.LevelEntry {
		return []common.Mode{common.ModeStandard, common.ModeMastery}
	}
	return []common.Mode{common.ModeStandard}
}

// Start begins a round. The level must be unlocked and have questions.
func (c *Controller) Start(level common.Level, mode common.Mode) (*Session, error) {
	if c.user == "" {
		return nil, ErrNotLoggedIn
	}
	if !c.progress.IsUnlocked(level) {
		return nil, errors.Wrapf(ErrLevelLocked, "%s", level)
	}
	available := false
	for _, m := range Modes(level) {
		if m == mode {
			available = true
		}
	}
	if !available {
		return nil, errors.Wrapf(ErrModeUnavailable, "%s on %s", mode, level)
	}
	if len(c.dispatcher.Pool(level)) == 0 {
		return nil, errors.Wrapf(question.ErrEmptyPool, "%s", level)
	}

	c.session = &Session{
		ID:        uuid.NewString(),
		User:      c.user,
		Level:     level,
		Mode:      mode,
		State:     common.StateIdle,
		StartedAt: c.now(),
	}
	c.log = logger.Log.ForRound(c.session.ID, c.user, level, mode)
	c.log.Info("round started")
	return c.session, nil
}

// Next asks the dispatcher for the next question of the round. An unanswered
// question is returned again.
func (c *Controller) Next() (*question.Question, error) {
	s := c.session
	if s == nil {
		return nil, ErrNoRound
	}
	if s.State == common.StateFinished {
		return nil, ErrRoundOver
	}
	if s.State == common.StateAsking {
		return s.Current, nil
	}

	q, err := Dispatch(c.dispatcher, s.Level, c.settings.MaxDispatchAttempts, c.log)
	if err != nil {
		return nil, err
	}
	s.Current = q
	s.State = common.StateAsking
	return q, nil
}

// Dispatch asks d for a question on level, retrying failed generations up to
// attempts times. Levels without generators fail on the first try.
func Dispatch(d *question.Dispatcher, level common.Level, attempts int, log *logrus.Entry) (*question.Question, error) {
	if attempts < 1 {
		attempts = 1
	}
	if log == nil {
		log = logger.Log.ForGenerator("dispatcher")
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		q, err := d.Next(string(level))
		if err == nil {
			return q, nil
		}
		lastErr = err
		if errors.Is(err, question.ErrEmptyPool) || errors.Is(err, question.ErrUnknownLevel) {
			return nil, err
		}
		log.WithError(err).Debugf("dispatch attempt %d failed", i+1)
	}
	log.WithError(lastErr).Warn("giving up on this question")
	return nil, errors.Wrapf(ErrNoQuestion, "%v", lastErr)
}

// Answer scores choice against the current question. When the answer ends
// the round, progression and high scores are saved and the feedback carries
// the summary. A failed save drops the round.
func (c *Controller) Answer(ctx context.Context, choice string) (Feedback, error) {
	s := c.session
	if s == nil {
		return Feedback{}, ErrNoRound
	}
	if s.State == common.StateFinished {
		return Feedback{}, ErrRoundOver
	}
	if s.State != common.StateAsking || s.Current == nil {
		return Feedback{}, ErrNotAsked
	}

	q := s.Current
	correct := q.IsCorrect(choice)
	s.Answers = append(s.Answers, Answer{Question: q, Chosen: choice, Correct: correct})
	s.Asked++
	if correct {
		s.Correct++
	}
	s.State = common.StateAnswered
	c.log.WithField(common.GeneratorName, q.Kind).Debugf("answered %q, correct=%v", choice, correct)

	fb := Feedback{Correct: correct, Chosen: choice, Answer: q.Answer, Explanation: q.Explanation}
	if c.roundOver(correct) {
		summary, err := c.finish(ctx)
		if err != nil {
			return fb, err
		}
		fb.Summary = summary
	}
	return fb, nil
}

func (c *Controller) roundOver(lastCorrect bool) bool {
	s := c.session
	if s.Mode == common.ModeMastery {
		return !lastCorrect
	}
	return s.Asked >= c.settings.Questions
}

// Quit ends the round early. Nothing is recorded.
func (c *Controller) Quit() {
	if c.session == nil || c.session.State == common.StateFinished {
		return
	}
	c.log.Infof("round quit after %d questions", c.session.Asked)
	c.session = nil
}

// finish applies the end-of-round rules and persists the result. Progress in
// memory only changes once the store has it. If a save fails the round is
// dropped.
func (c *Controller) finish(ctx context.Context) (*Summary, error) {
	s := c.session
	finishedAt := c.now()
	elapsed := finishedAt.Sub(s.StartedAt)
	summary := &Summary{
		Level:       s.Level,
		Mode:        s.Mode,
		Score:       s.Correct,
		Asked:       s.Asked,
		Elapsed:     elapsed,
		PerQuestion: xtime.PerItem(elapsed, s.Asked),
	}
	if s.Asked > 0 {
		summary.Accuracy = util.Round(float64(s.Correct)*100/float64(s.Asked), 1)
	}

	if s.Mode == common.ModeStandard {
		next := c.progress.Clone()
		summary.Perfect = s.Correct == s.Asked && s.Asked >= c.settings.Questions
		summary.Unlocked, summary.Streak = next.ApplyRound(s.Level, summary.Perfect, c.settings.UnlockStreak)
		if err := c.store.SaveUserProgress(ctx, c.user, next); err != nil {
			c.dropRound(err)
			return nil, errors.Wrap(err, "failed to save progress")
		}
		c.progress = next
	}
	summary.Progress = c.progress.Clone()

	written, err := c.store.SaveHighScore(ctx, c.user, s.Correct, s.Level, s.Mode)
	if err != nil {
		c.dropRound(err)
		return nil, errors.Wrap(err, "failed to save high score")
	}
	summary.NewHighScore = written

	s.State = common.StateFinished
	s.Current = nil
	s.FinishedAt = finishedAt
	s.Summary = summary

	entry := c.log.WithField("score", s.Correct)
	if summary.Unlocked != "" {
		entry.Infof("round finished in %s, unlocked %s", xtime.Elapsed(s.StartedAt, s.FinishedAt), summary.Unlocked)
	} else {
		entry.Infof("round finished in %s", xtime.Elapsed(s.StartedAt, s.FinishedAt))
	}
	return summary, nil
}

func (c *Controller) dropRound(err error) {
	c.log.WithError(err).Error("round dropped, result not saved")
	c.session = nil
}
