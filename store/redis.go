package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/config"
	"github.com/mensylisir/ipsprint/logger"
)

const (
	// RedisKeyPrefix namespaces every key the store writes.
	RedisKeyPrefix = common.AppName + ":"
	// MaxRedisTxRetries bounds optimistic transaction retries on contention.
	MaxRedisTxRetries = 10
)

// RedisStore keeps progress as one JSON string per user, high scores as one
// hash per player and the player order in a list.
type RedisStore struct {
	client *redis.Client
	log    *logrus.Entry
}

// OpenRedis parses url, connects and pings.
func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse Redis URL %q", url)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}
	return NewRedisStore(client), nil
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, log: logger.Log.ForStore(config.DriverRedis)}
}

func progressKey(username string) string { return RedisKeyPrefix + "progress:" + username }
func scoresKey(name string) string       { return RedisKeyPrefix + "scores:" + name }
func playersKey() string                 { return RedisKeyPrefix + "players" }

func (s *RedisStore) LoadUserProgress(ctx context.Context, username string) (UserProgress, error) {
	raw, err := s.client.Get(ctx, progressKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return DefaultProgress(), nil
	}
	if err != nil {
		return DefaultProgress(), errors.Wrapf(err, "failed to load progress of %s", username)
	}
	var p UserProgress
	if err := json.Unmarshal(raw, &p); err != nil {
		s.log.WithError(err).WithField(common.UserName, username).Warn("corrupt progress, using defaults")
		return DefaultProgress(), nil
	}
	p.Normalize()
	return p, nil
}

func (s *RedisStore) SaveUserProgress(ctx context.Context, username string, p UserProgress) error {
	p.Normalize()
	raw, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "failed to encode progress")
	}
	if err := s.client.Set(ctx, progressKey(username), raw, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to save progress of %s", username)
	}
	return nil
}

func (s *RedisStore) LoadHighScores(ctx context.Context) ([]HighScore, error) {
	names, err := s.client.LRange(ctx, playersKey(), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list players")
	}
	if len(names) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(names))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, name := range names {
			cmds[i] = pipe.HGetAll(ctx, scoresKey(name))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load high scores")
	}

	out := make([]HighScore, 0, len(names))
	for i, name := range names {
		entry := HighScore{Name: name, Scores: map[string]int{}}
		for key, raw := range cmds[i].Val() {
			n, err := strconv.Atoi(raw)
			if err != nil {
				s.log.WithField(common.UserName, name).Warnf("ignoring corrupt score %q for %s", raw, key)
				continue
			}
			entry.Scores[key] = n
		}
		out = append(out, entry)
	}
	return out, nil
}

// SaveHighScore runs an optimistic WATCH transaction on the player's hash so
// concurrent sessions of the same player cannot lower a score.
func (s *RedisStore) SaveHighScore(ctx context.Context, name string, score int, level common.Level, mode common.Mode) (bool, error) {
	key := ScoreKey(level, mode)
	hash := scoresKey(name)

	for attempt := 0; attempt < MaxRedisTxRetries; attempt++ {
		written := false
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			exists, err := tx.Exists(ctx, hash).Result()
			if err != nil {
				return err
			}
			raw, err := tx.HGet(ctx, hash, key).Result()
			found := err == nil
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			stored, _ := strconv.Atoi(raw)
			if !beats(score, stored, found) {
				return nil
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, hash, key, score)
				if exists == 0 {
					pipe.RPush(ctx, playersKey(), name)
				}
				return nil
			})
			if err == nil {
				written = true
			}
			return err
		}, hash)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return false, errors.Wrapf(err, "failed to save high score of %s", name)
		}
		if written {
			s.log.WithField(common.UserName, name).Infof("new high score %d for %s", score, key)
		}
		return written, nil
	}
	return false, errors.Errorf("high score of %s not saved after %d contended attempts", name, MaxRedisTxRetries)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
