package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ServeConfig configures the HTTP stats service.
type ServeConfig struct {
	Addr     string `env:"CRYPTOMATCH_ADDR" envDefault:":8080"`
	DBDriver string `env:"CRYPTOMATCH_DB_DRIVER" envDefault:"sqlite"`
	DBDSN    string `env:"CRYPTOMATCH_DB_DSN"`
	BaseURL  string `env:"CRYPTOMATCH_BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadDotEnv loads key=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServeConfig reads .env (if present) and then the environment.
func LoadServeConfig(dotenv ...string) (ServeConfig, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	if err := LoadDotEnv(dotenv...); err != nil {
		return ServeConfig{}, err
	}
	var cfg ServeConfig
	if err := ParseEnv(&cfg); err != nil {
		return ServeConfig{}, err
	}
	if cfg.DBDSN == "" && (cfg.DBDriver == "" || cfg.DBDriver == "sqlite") {
		cfg.DBDSN = DefaultDBPath()
	}
	return cfg, nil
}
