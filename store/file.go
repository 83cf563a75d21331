package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/logger"
	"github.com/mensylisir/ipsprint/util"
)

const (
	ProgressFileName   = "progress.json"
	HighScoresFileName = "highscores.json"
)

// FileStore keeps everything in two JSON documents under one directory:
// a map of username to progress and an ordered list of high scores.
type FileStore struct {
	mu  sync.Mutex
	dir string
	log *logrus.Entry
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store directory is empty")
	}
	if err := util.EnsureDir(dir, common.FileMode0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, log: logger.Log.ForStore("file")}, nil
}

func (s *FileStore) progressPath() string   { return filepath.Join(s.dir, ProgressFileName) }
func (s *FileStore) highScoresPath() string { return filepath.Join(s.dir, HighScoresFileName) }

// readJSON decodes path into v and reports whether v can be used. Unreadable
// or corrupt files are logged, never returned as errors.
func (s *FileStore) readJSON(path string, v interface{}) bool {
	if !util.FileExists(path) {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.WithError(err).Warnf("cannot read %s, using defaults", path)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.WithError(err).Warnf("corrupt data in %s, using defaults", path)
		return false
	}
	return true
}

func (s *FileStore) writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return util.WriteFileAtomic(path, data, common.FileMode0644)
}

func (s *FileStore) loadProgressMap() map[string]UserProgress {
	var all map[string]UserProgress
	if !s.readJSON(s.progressPath(), &all) || all == nil {
		return map[string]UserProgress{}
	}
	return all
}

func (s *FileStore) loadScores() []HighScore {
	var scores []HighScore
	if !s.readJSON(s.highScoresPath(), &scores) {
		return nil
	}
	return scores
}

func (s *FileStore) LoadUserProgress(_ context.Context, username string) (UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.loadProgressMap()[username]
	if !ok {
		return DefaultProgress(), nil
	}
	p.Normalize()
	return p, nil
}

func (s *FileStore) SaveUserProgress(_ context.Context, username string, p UserProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadProgressMap()
	p.Normalize()
	all[username] = p
	if err := s.writeJSON(s.progressPath(), all); err != nil {
		return err
	}
	s.log.WithField(common.UserName, username).Debugf("saved progress %v", p.UnlockedLevels)
	return nil
}

func (s *FileStore) LoadHighScores(_ context.Context) ([]HighScore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadScores(), nil
}

func (s *FileStore) SaveHighScore(_ context.Context, name string, score int, level common.Level, mode common.Mode) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ScoreKey(level, mode)
	scores := s.loadScores()
	idx := -1
	for i := range scores {
		if scores[i].Name == name {
			idx = i
			break
		}
	}
	var stored int
	var found bool
	if idx >= 0 {
		stored, found = scores[idx].Best(key)
	}
	if !beats(score, stored, found) {
		return false, nil
	}

	if idx < 0 {
		scores = append(scores, HighScore{Name: name, Scores: map[string]int{}})
		idx = len(scores) - 1
	}
	if scores[idx].Scores == nil {
		scores[idx].Scores = map[string]int{}
	}
	scores[idx].Scores[key] = score
	if err := s.writeJSON(s.highScoresPath(), scores); err != nil {
		return false, err
	}
	s.log.WithField(common.UserName, name).Infof("new high score %d for %s", score, key)
	return true, nil
}

func (s *FileStore) Close() error {
	return nil
}
