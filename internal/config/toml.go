// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play     PlayConfig     `toml:"play"`
	Policy   PolicyConfig   `toml:"policy"`
	Database DatabaseConfig `toml:"database"`
}

// PlayConfig maps session settings.
type PlayConfig struct {
	Wallet   *string `toml:"wallet"`
	Identity *string `toml:"identity"`
	Layout   *string `toml:"layout"`
	StatsURL *string `toml:"stats-url"`
	Catalog  *string `toml:"catalog"`
}

// PolicyConfig maps scoring and timing knobs.
type PolicyConfig struct {
	ChainWindowMs     *int     `toml:"chain-window-ms"`
	ComboStep         *float64 `toml:"combo-step"`
	ComboCap          *float64 `toml:"combo-cap"`
	IncorrectWindowMs *int     `toml:"incorrect-window-ms"`
	ToastMs           *int     `toml:"toast-ms"`
}

// DatabaseConfig selects the stats store backend.
type DatabaseConfig struct {
	Driver *string `toml:"driver"`
	DSN    *string `toml:"dsn"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
