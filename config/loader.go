package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mensylisir/ipsprint/common"
)

// Loader reads a GameConfig from a YAML file.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and structurally validates the file. Defaults are applied
// separately by SetDefaults.
func (l *Loader) Load() (*GameConfig, error) {
	if l.filePath == "" {
		return nil, fmt.Errorf("configuration file path is empty")
	}
	content, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", l.filePath, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("configuration file '%s' is empty", l.filePath)
	}

	var cfg GameConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML from '%s': %w", l.filePath, err)
	}

	if cfg.APIVersion == "" {
		return nil, fmt.Errorf("config validation failed: apiVersion is a required field in '%s'", l.filePath)
	}
	if cfg.Kind != common.DefaultAPIKind {
		return nil, fmt.Errorf("config validation failed: kind must be '%s' in '%s', got '%s'", common.DefaultAPIKind, l.filePath, cfg.Kind)
	}
	if cfg.Metadata.Name == "" {
		return nil, fmt.Errorf("config validation failed: metadata.name is a required field in '%s'", l.filePath)
	}
	return &cfg, nil
}

// Resolve is the full pipeline used by the CLI: load the file (or start from
// Default when path is empty), apply environment overrides, fill defaults and
// validate.
func Resolve(path, envFile string) (*GameConfig, error) {
	var cfg *GameConfig
	if path == "" {
		cfg = &GameConfig{APIVersion: DefaultAPIVersion, Kind: common.DefaultAPIKind, Metadata: MetadataSpec{Name: DefaultName}}
	} else {
		loaded, err := NewLoader(path).Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := ApplyEnv(cfg, envFile); err != nil {
		return nil, err
	}
	if err := SetDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
