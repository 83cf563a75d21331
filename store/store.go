// Package store persists per-user progression and the high-score leaderboard.
package store

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/util"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Store is the persistence boundary of the game. Reads of missing or
// unreadable data return defaults instead of failing.
type Store interface {
	LoadUserProgress(ctx context.Context, username string) (UserProgress, error)
	SaveUserProgress(ctx context.Context, username string, p UserProgress) error
	// LoadHighScores returns players in the order they first set a score.
	LoadHighScores(ctx context.Context) ([]HighScore, error)
	// SaveHighScore records score only when it beats the stored value for
	// ScoreKey(level, mode). It reports whether it wrote.
	SaveHighScore(ctx context.Context, name string, score int, level common.Level, mode common.Mode) (bool, error)
	Close() error
}

// UserProgress is what a player has unlocked and how close they are to the next tier.
type UserProgress struct {
	UnlockedLevels         []common.Level `json:"unlockedLevels"`
	EntryPerfectStreak     int            `json:"entryPerfectStreak"`
	AssociatePerfectStreak int            `json:"associatePerfectStreak"`
}

// DefaultProgress is the progress of a player never seen before.
func DefaultProgress() UserProgress {
	return UserProgress{UnlockedLevels: []common.Level{common.LevelEntry}}
}

// Clone returns a copy that shares no memory with p.
func (p UserProgress) Clone() UserProgress {
	p.UnlockedLevels = append([]common.Level(nil), p.UnlockedLevels...)
	return p
}

func (p UserProgress) IsUnlocked(level common.Level) bool {
	for _, l := range p.UnlockedLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Unlock adds level and reports whether it was new.
func (p *UserProgress) Unlock(level common.Level) bool {
	if p.IsUnlocked(level) {
		return false
	}
	p.UnlockedLevels = append(p.UnlockedLevels, level)
	p.Normalize()
	return true
}

// Streak returns the perfect-round streak kept for level. Levels without a
// next tier have none.
func (p UserProgress) Streak(level common.Level) int {
	switch level {
	case common.LevelEntry:
		return p.EntryPerfectStreak
	case common.LevelAssociate:
		return p.AssociatePerfectStreak
	}
	return 0
}

func (p *UserProgress) SetStreak(level common.Level, n int) {
	switch level {
	case common.LevelEntry:
		p.EntryPerfectStreak = n
	case common.LevelAssociate:
		p.AssociatePerfectStreak = n
	}
}

// ApplyRound records a finished standard round on level. A perfect round
// extends the level's streak; reaching unlockStreak unlocks the next level and
// resets the streak. Anything else resets it. It returns the level unlocked,
// if any, and the streak after the round.
func (p *UserProgress) ApplyRound(level common.Level, perfect bool, unlockStreak int) (common.Level, int) {
	if level != common.LevelEntry && level != common.LevelAssociate {
		return "", 0
	}
	if !perfect {
		p.SetStreak(level, 0)
		return "", 0
	}
	streak := p.Streak(level) + 1
	var unlocked common.Level
	if streak >= unlockStreak {
		streak = 0
		if next, ok := level.Next(); ok && p.Unlock(next) {
			unlocked = next
		}
	}
	p.SetStreak(level, streak)
	return unlocked, streak
}

// Normalize drops unknown and repeated levels, always keeps Entry and sorts
// the set in unlock order. Negative streaks are reset.
func (p *UserProgress) Normalize() {
	names := make([]string, 0, len(p.UnlockedLevels)+1)
	names = append(names, string(common.LevelEntry))
	for _, l := range p.UnlockedLevels {
		names = append(names, string(l))
	}
	seen := map[common.Level]bool{}
	for _, name := range util.UniqueStrings(names) {
		if l, ok := common.ParseLevel(name); ok {
			seen[l] = true
		}
	}
	out := make([]common.Level, 0, len(common.Levels))
	for _, l := range common.Levels {
		if seen[l] {
			out = append(out, l)
		}
	}
	p.UnlockedLevels = out
	if p.EntryPerfectStreak < 0 {
		p.EntryPerfectStreak = 0
	}
	if p.AssociatePerfectStreak < 0 {
		p.AssociatePerfectStreak = 0
	}
}

// HighScore holds the best score of one player per ScoreKey.
type HighScore struct {
	Name   string         `json:"name"`
	Scores map[string]int `json:"scores"`
}

// Clone returns a copy with its own Scores map.
func (h HighScore) Clone() HighScore {
	scores := make(map[string]int, len(h.Scores))
	for k, v := range h.Scores {
		scores[k] = v
	}
	h.Scores = scores
	return h
}

// Best returns the score stored under key.
func (h HighScore) Best(key string) (int, bool) {
	v, ok := h.Scores[key]
	return v, ok
}

// ScoreKey names the leaderboard column a round counts for. Only Entry keeps
// mastery and standard apart.
func ScoreKey(level common.Level, mode common.Mode) string {
	if level == common.LevelEntry && mode == common.ModeMastery {
		return fmt.Sprintf("%s-%s", level, common.ModeMastery)
	}
	return fmt.Sprintf("%s-%s", level, common.ModeStandard)
}

// beats reports whether score should replace the stored value. A score of 0
// never enters the leaderboard.
func beats(score, stored int, found bool) bool {
	if !found {
		return score > 0
	}
	return score > stored
}
