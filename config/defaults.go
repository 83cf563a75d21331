package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/util"
)

const (
	DefaultAPIVersion          = "ipsprint.mensylisir.io/v1alpha1"
	DefaultName                = "ipsprint"
	DefaultStoreDriver         = DriverFile
	DefaultRedisURL            = "redis://localhost:6379/0"
	DefaultSQLiteFile          = "ipsprint.db"
	DefaultCacheTTL            = 30 * time.Second
	DefaultLogLevel            = "info"
	DefaultLogDirName          = "logs"
	DefaultQuestions           = 10
	DefaultUnlockStreak        = 3
	DefaultMaxDispatchAttempts = 5
	DefaultTheme               = ThemeDark
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"

	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Drivers lists every supported store driver.
var Drivers = []string{DriverFile, DriverSQLite, DriverPostgres, DriverRedis}

// DataDir is where the game keeps its files unless told otherwise: ~/.ipsprint.
func DataDir() (string, error) {
	home, err := util.Home()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, common.DataDirName), nil
}

// Default returns a fully defaulted configuration, used when no file is given.
func Default() (*GameConfig, error) {
	cfg := &GameConfig{
		APIVersion: DefaultAPIVersion,
		Kind:       common.DefaultAPIKind,
		Metadata:   MetadataSpec{Name: DefaultName},
	}
	if err := SetDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills every unset field. Paths are only resolved against the
// data directory when the chosen driver needs them.
func SetDefaults(cfg *GameConfig) error {
	if cfg == nil {
		return fmt.Errorf("config to default cannot be nil")
	}
	s := &cfg.Spec

	if s.Store.Driver == "" {
		s.Store.Driver = DefaultStoreDriver
	}
	s.Store.Driver = strings.ToLower(s.Store.Driver)
	if s.Store.CacheTTL == 0 && s.Store.Driver != DriverFile {
		s.Store.CacheTTL = DefaultCacheTTL
	}
	if s.Store.Driver == DriverRedis && s.Store.RedisURL == "" {
		s.Store.RedisURL = DefaultRedisURL
	}

	needsDir := (s.Store.Driver == DriverFile && s.Store.Path == "") ||
		(s.Store.Driver == DriverSQLite && s.Store.DSN == "") ||
		s.Log.Dir == ""
	if needsDir {
		dir, err := DataDir()
		if err != nil {
			return err
		}
		if s.Store.Driver == DriverFile && s.Store.Path == "" {
			s.Store.Path = dir
		}
		if s.Store.Driver == DriverSQLite && s.Store.DSN == "" {
			s.Store.DSN = filepath.Join(dir, DefaultSQLiteFile)
		}
		if s.Log.Dir == "" {
			s.Log.Dir = filepath.Join(dir, DefaultLogDirName)
		}
	}

	if s.Log.Level == "" {
		s.Log.Level = DefaultLogLevel
	}
	if s.Round.Questions == 0 {
		s.Round.Questions = DefaultQuestions
	}
	if s.Round.UnlockStreak == 0 {
		s.Round.UnlockStreak = DefaultUnlockStreak
	}
	if s.Round.MaxDispatchAttempts == 0 {
		s.Round.MaxDispatchAttempts = DefaultMaxDispatchAttempts
	}
	if s.UI.Theme == "" {
		s.UI.Theme = DefaultTheme
	}
	s.UI.Theme = strings.ToLower(s.UI.Theme)
	return nil
}

// Validate checks a defaulted configuration.
func (c *GameConfig) Validate() error {
	s := c.Spec
	if !contains(Drivers, s.Store.Driver) {
		return fmt.Errorf("spec.store.driver must be one of %v, got '%s'", Drivers, s.Store.Driver)
	}
	if s.Store.Driver == DriverPostgres && s.Store.DSN == "" {
		return fmt.Errorf("spec.store.dsn is required for the postgres driver")
	}
	if s.Store.CacheTTL < 0 {
		return fmt.Errorf("spec.store.cacheTTL must not be negative, got %s", s.Store.CacheTTL)
	}
	if _, err := logrus.ParseLevel(s.Log.Level); err != nil {
		return fmt.Errorf("spec.log.level is invalid: %w", err)
	}
	if s.Round.Questions < 1 {
		return fmt.Errorf("spec.round.questions must be positive, got %d", s.Round.Questions)
	}
	if s.Round.UnlockStreak < 1 {
		return fmt.Errorf("spec.round.unlockStreak must be positive, got %d", s.Round.UnlockStreak)
	}
	if s.Round.MaxDispatchAttempts < 1 {
		return fmt.Errorf("spec.round.maxDispatchAttempts must be positive, got %d", s.Round.MaxDispatchAttempts)
	}
	if s.UI.Theme != ThemeDark && s.UI.Theme != ThemeLight {
		return fmt.Errorf("spec.ui.theme must be '%s' or '%s', got '%s'", ThemeDark, ThemeLight, s.UI.Theme)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
