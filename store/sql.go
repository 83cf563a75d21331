package store

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/config"
	"github.com/mensylisir/ipsprint/logger"
)

// progressRecord is one row of user_progress. Levels are stored comma separated.
type progressRecord struct {
	Username               string `gorm:"primaryKey;size:64"`
	UnlockedLevels         string `gorm:"size:128;not null"`
	EntryPerfectStreak     int    `gorm:"not null;default:0"`
	AssociatePerfectStreak int    `gorm:"not null;default:0"`
	UpdatedAt              time.Time
}

func (progressRecord) TableName() string { return "user_progress" }

// scoreRecord is one best score of one player. The autoincrement ID keeps the
// order players first appeared in.
type scoreRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:64;not null;uniqueIndex:idx_high_scores_name_key"`
	Key       string `gorm:"column:score_key;size:64;not null;uniqueIndex:idx_high_scores_name_key"`
	Score     int    `gorm:"not null"`
	UpdatedAt time.Time
}

func (scoreRecord) TableName() string { return "high_scores" }

// SQLStore persists through gorm, on sqlite or postgres.
type SQLStore struct {
	db  *gorm.DB
	log *logrus.Entry
}

// SQLOption customizes OpenSQL.
type SQLOption func(*gorm.Config)

// WithGormLogger replaces the default silent gorm logger.
func WithGormLogger(l gormlogger.Interface) SQLOption {
	return func(cfg *gorm.Config) {
		cfg.Logger = l
	}
}

// OpenSQL connects with the named driver ("sqlite" or "postgres") and migrates the schema.
func OpenSQL(driver, dsn string, opts ...SQLOption) (*SQLStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, errors.Wrapf(ErrUnknownDriver, "%q is not a SQL driver", driver)
	}

	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	for _, opt := range opts {
		opt(cfg)
	}
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", driver)
	}
	return NewSQLStore(db, driver)
}

// NewSQLStore wraps an existing connection and migrates the schema.
func NewSQLStore(db *gorm.DB, driver string) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("nil database connection")
	}
	if err := db.AutoMigrate(&progressRecord{}, &scoreRecord{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate store schema")
	}
	return &SQLStore{db: db, log: logger.Log.ForStore(driver)}, nil
}

func encodeLevels(levels []common.Level) string {
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = string(l)
	}
	return strings.Join(names, ",")
}

func decodeLevels(s string) []common.Level {
	var out []common.Level
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, common.Level(name))
		}
	}
	return out
}

func (s *SQLStore) LoadUserProgress(ctx context.Context, username string) (UserProgress, error) {
	var rec progressRecord
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultProgress(), nil
	}
	if err != nil {
		s.log.WithError(err).WithField(common.UserName, username).Warn("cannot load progress, using defaults")
		return DefaultProgress(), nil
	}
	p := UserProgress{
		UnlockedLevels:         decodeLevels(rec.UnlockedLevels),
		EntryPerfectStreak:     rec.EntryPerfectStreak,
		AssociatePerfectStreak: rec.AssociatePerfectStreak,
	}
	p.Normalize()
	return p, nil
}

func (s *SQLStore) SaveUserProgress(ctx context.Context, username string, p UserProgress) error {
	p.Normalize()
	rec := progressRecord{
		Username:               username,
		UnlockedLevels:         encodeLevels(p.UnlockedLevels),
		EntryPerfectStreak:     p.EntryPerfectStreak,
		AssociatePerfectStreak: p.AssociatePerfectStreak,
	}
	if err := s.db.WithContext(ctx).Save(&rec).Error; err != nil {
		return errors.Wrapf(err, "failed to save progress of %s", username)
	}
	return nil
}

func (s *SQLStore) LoadHighScores(ctx context.Context) ([]HighScore, error) {
	var recs []scoreRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		s.log.WithError(err).Warn("cannot load high scores, using an empty leaderboard")
		return nil, nil
	}
	var out []HighScore
	index := map[string]int{}
	for _, r := range recs {
		i, ok := index[r.Name]
		if !ok {
			out = append(out, HighScore{Name: r.Name, Scores: map[string]int{}})
			i = len(out) - 1
			index[r.Name] = i
		}
		out[i].Scores[r.Key] = r.Score
	}
	return out, nil
}

func (s *SQLStore) SaveHighScore(ctx context.Context, name string, score int, level common.Level, mode common.Mode) (bool, error) {
	key := ScoreKey(level, mode)
	written := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec scoreRecord
		err := tx.Where("name = ? AND score_key = ?", name, key).Take(&rec).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if !beats(score, rec.Score, found) {
			return nil
		}
		if found {
			err = tx.Model(&rec).Update("score", score).Error
		} else {
			err = tx.Create(&scoreRecord{Name: name, Key: key, Score: score}).Error
		}
		if err != nil {
			return err
		}
		written = true
		return nil
	})
	if err != nil {
		return false, errors.Wrapf(err, "failed to save high score of %s", name)
	}
	if written {
		s.log.WithField(common.UserName, name).Infof("new high score %d for %s", score, key)
	}
	return written, nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}
	return sqlDB.Close()
}
