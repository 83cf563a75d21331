// Package game runs rounds: it owns the session state, asks the dispatcher
// for questions, scores answers and applies progression when a round ends.
package game

import (
	"time"

	"github.com/pkg/errors"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/config"
	"github.com/mensylisir/ipsprint/question"
	"github.com/mensylisir/ipsprint/store"
)

var (
	ErrNotLoggedIn     = errors.New("no user logged in")
	ErrLevelLocked     = errors.New("level is locked")
	ErrModeUnavailable = errors.New("mode is not available for this level")
	ErrNoRound         = errors.New("no round in progress")
	ErrRoundOver       = errors.New("round is over")
	ErrNotAsked        = errors.New("no question is waiting for an answer")
	ErrNoQuestion      = errors.New("no question could be generated")
)

// Settings are the round rules.
type Settings struct {
	Questions           int
	UnlockStreak        int
	MaxDispatchAttempts int
}

func DefaultSettings() Settings {
	return Settings{
		Questions:           config.DefaultQuestions,
		UnlockStreak:        config.DefaultUnlockStreak,
		MaxDispatchAttempts: config.DefaultMaxDispatchAttempts,
	}
}

// SettingsFrom reads the round section of a configuration.
func SettingsFrom(spec config.RoundSpec) Settings {
	s := DefaultSettings()
	if spec.Questions > 0 {
		s.Questions = spec.Questions
	}
	if spec.UnlockStreak > 0 {
		s.UnlockStreak = spec.UnlockStreak
	}
	if spec.MaxDispatchAttempts > 0 {
		s.MaxDispatchAttempts = spec.MaxDispatchAttempts
	}
	return s
}

// Session is one round in progress.
type Session struct {
	ID    string
	User  string
	Level common.Level
	Mode  common.Mode
	State common.RoundState

	Current *question.Question
	Asked   int
	Correct int
	Answers []Answer

	StartedAt  time.Time
	FinishedAt time.Time
	Summary    *Summary
}

// Answer is one answered question of a round.
type Answer struct {
	Question *question.Question
	Chosen   string
	Correct  bool
}

// Feedback is what the player sees after answering.
type Feedback struct {
	Correct     bool
	Chosen      string
	Answer      string
	Explanation string
	// Summary is set when this answer ended the round.
	Summary *Summary
}

// Summary describes a finished round.
type Summary struct {
	Level   common.Level
	Mode    common.Mode
	Score   int
	Asked   int
	Perfect bool
	// Accuracy is the percentage of correct answers, one decimal.
	Accuracy    float64
	Elapsed     time.Duration
	PerQuestion time.Duration

	NewHighScore bool
	Streak       int
	Unlocked     common.Level
	Progress     store.UserProgress
}

// Remaining is how many questions are left in a standard round. Mastery
// rounds report -1.
func (s *Session) Remaining(total int) int {
	if s.Mode == common.ModeMastery {
		return -1
	}
	if r := total - s.Asked; r > 0 {
		return r
	}
	return 0
}
