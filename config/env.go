package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mensylisir/ipsprint/common"
	"github.com/mensylisir/ipsprint/logger"
	"github.com/mensylisir/ipsprint/util"
)

// DefaultEnvFile is read by ApplyEnv when no other file is named.
const DefaultEnvFile = ".env"

// Environment variables, all prefixed with IPSPRINT_.
const (
	EnvStoreDriver = common.EnvPrefix + "STORE_DRIVER"
	EnvStorePath   = common.EnvPrefix + "STORE_PATH"
	EnvStoreDSN    = common.EnvPrefix + "STORE_DSN"
	EnvRedisURL    = common.EnvPrefix + "REDIS_URL"
	EnvCacheTTL    = common.EnvPrefix + "CACHE_TTL"
	EnvLogDir      = common.EnvPrefix + "LOG_DIR"
	EnvLogLevel    = common.EnvPrefix + "LOG_LEVEL"
	EnvVerbose     = common.EnvPrefix + "VERBOSE"
	EnvQuestions   = common.EnvPrefix + "QUESTIONS"
	EnvTheme       = common.EnvPrefix + "THEME"
)

// ApplyEnv loads envFile into the process environment (variables already set
// win) and then copies every IPSPRINT_ variable that is set onto cfg.
// A missing env file is not an error.
func ApplyEnv(cfg *GameConfig, envFile string) error {
	if cfg == nil {
		return fmt.Errorf("config to override cannot be nil")
	}
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file '%s': %w", envFile, err)
		}
		logger.Log.Debugf("no env file at %s, using the process environment", envFile)
	}

	s := &cfg.Spec
	s.Store.Driver = util.GetEnv(EnvStoreDriver, s.Store.Driver)
	s.Store.Path = util.GetEnv(EnvStorePath, s.Store.Path)
	s.Store.DSN = util.GetEnv(EnvStoreDSN, s.Store.DSN)
	s.Store.RedisURL = util.GetEnv(EnvRedisURL, s.Store.RedisURL)
	s.Log.Dir = util.GetEnv(EnvLogDir, s.Log.Dir)
	s.Log.Level = util.GetEnv(EnvLogLevel, s.Log.Level)
	s.UI.Theme = util.GetEnv(EnvTheme, s.UI.Theme)

	if raw, ok := os.LookupEnv(EnvCacheTTL); ok {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s must be a duration: %w", EnvCacheTTL, err)
		}
		s.Store.CacheTTL = ttl
	}
	if raw, ok := os.LookupEnv(EnvVerbose); ok {
		verbose, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", EnvVerbose, err)
		}
		s.Log.Verbose = verbose
	}
	if n, ok, err := util.LookupEnvInt(EnvQuestions); err != nil {
		return err
	} else if ok {
		s.Round.Questions = n
	}
	return nil
}
