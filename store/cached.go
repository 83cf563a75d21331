package store

import (
	"context"
	"time"

	"github.com/mensylisir/ipsprint/cache"
	"github.com/mensylisir/ipsprint/common"
)

const leaderboardKey = "leaderboard"

// Cached puts a TTL read cache in front of a remote Store. Writes go straight
// through and refresh or invalidate what they touch.
type Cached struct {
	Store
	leaderboard *cache.Cache[string, []HighScore]
	progress    *cache.Cache[string, UserProgress]
}

// NewCached wraps next. The janitor runs at the TTL.
func NewCached(next Store, ttl time.Duration) *Cached {
	return &Cached{
		Store: next,
		leaderboard: cache.NewCache[string, []HighScore](
			cache.WithDefaultTTL[string, []HighScore](ttl),
			cache.WithJanitorInterval[string, []HighScore](ttl),
		),
		progress: cache.NewCache[string, UserProgress](
			cache.WithDefaultTTL[string, UserProgress](ttl),
			cache.WithJanitorInterval[string, UserProgress](ttl),
		),
	}
}

// Reads hand out copies so callers cannot change what is cached.

func (c *Cached) LoadUserProgress(ctx context.Context, username string) (UserProgress, error) {
	p, err := c.progress.GetOrLoad(username, func() (UserProgress, error) {
		return c.Store.LoadUserProgress(ctx, username)
	})
	return p.Clone(), err
}

func (c *Cached) SaveUserProgress(ctx context.Context, username string, p UserProgress) error {
	if err := c.Store.SaveUserProgress(ctx, username, p); err != nil {
		c.progress.Delete(username)
		return err
	}
	p.Normalize()
	c.progress.Set(username, p)
	return nil
}

func (c *Cached) LoadHighScores(ctx context.Context) ([]HighScore, error) {
	scores, err := c.leaderboard.GetOrLoad(leaderboardKey, func() ([]HighScore, error) {
		return c.Store.LoadHighScores(ctx)
	})
	if err != nil {
		return nil, err
	}
	out := make([]HighScore, len(scores))
	for i, hs := range scores {
		out[i] = hs.Clone()
	}
	return out, nil
}

func (c *Cached) SaveHighScore(ctx context.Context, name string, score int, level common.Level, mode common.Mode) (bool, error) {
	written, err := c.Store.SaveHighScore(ctx, name, score, level, mode)
	if written || err != nil {
		c.leaderboard.Delete(leaderboardKey)
	}
	return written, err
}

func (c *Cached) Close() error {
	c.leaderboard.Close()
	c.progress.Close()
	return c.Store.Close()
}
