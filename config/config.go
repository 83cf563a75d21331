package config

import (
	"time"
)

// GameConfig is the top-level configuration file.
type GameConfig struct {
	APIVersion string       `yaml:"apiVersion"`
	Kind       string       `yaml:"kind"`
	Metadata   MetadataSpec `yaml:"metadata"`
	Spec       GameSpec     `yaml:"spec"`
}

type MetadataSpec struct {
	Name string `yaml:"name"`
}

// GameSpec holds every tunable of the game.
type GameSpec struct {
	Store StoreSpec `yaml:"store"`
	Log   LogSpec   `yaml:"log"`
	Round RoundSpec `yaml:"round"`
	UI    UISpec    `yaml:"ui"`
}

// StoreSpec selects where progress and high scores are persisted.
type StoreSpec struct {
	Driver   string        `yaml:"driver"`             // file, sqlite, postgres, redis
	Path     string        `yaml:"path,omitempty"`     // directory of the file store
	DSN      string        `yaml:"dsn,omitempty"`      // sqlite file or postgres dsn
	RedisURL string        `yaml:"redisUrl,omitempty"` // e.g. redis://localhost:6379/0
	CacheTTL time.Duration `yaml:"cacheTTL,omitempty"` // leaderboard read cache, 0 disables it
}

type LogSpec struct {
	Dir     string `yaml:"dir,omitempty"`
	Level   string `yaml:"level,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// RoundSpec shapes a round and the progression rules.
type RoundSpec struct {
	Questions           int `yaml:"questions"`
	UnlockStreak        int `yaml:"unlockStreak"`
	MaxDispatchAttempts int `yaml:"maxDispatchAttempts"`
}

type UISpec struct {
	Theme string `yaml:"theme"` // dark or light
}
