package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
	if cfg.Play.Wallet != nil || cfg.Database.Driver != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[play]
wallet = "0x52908400098527886E0F7030069857D2E4169EE7"
layout = "shuffled"

[policy]
chain-window-ms = 2500
combo-cap = 1.5

[database]
driver = "postgres"
dsn = "postgres://localhost/cryptomatch"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Play.Layout == nil || *cfg.Play.Layout != "shuffled" {
		t.Fatalf("unexpected layout: %v", cfg.Play.Layout)
	}
	if cfg.Policy.ChainWindowMs == nil || *cfg.Policy.ChainWindowMs != 2500 {
		t.Fatalf("unexpected chain window: %v", cfg.Policy.ChainWindowMs)
	}
	if cfg.Policy.ComboStep != nil {
		t.Fatalf("expected unset combo step")
	}
	if cfg.Database.Driver == nil || *cfg.Database.Driver != "postgres" {
		t.Fatalf("unexpected driver: %v", cfg.Database.Driver)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[play]\nwalet = \"0x1\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "play.walet") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadServeConfig(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenv, []byte("CRYPTOMATCH_ADDR=:9999\nCRYPTOMATCH_BASE_URL=https://match.example\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("CRYPTOMATCH_ADDR", "")
	t.Setenv("CRYPTOMATCH_BASE_URL", "https://override.example")
	t.Setenv("CRYPTOMATCH_DB_DRIVER", "")
	t.Setenv("CRYPTOMATCH_DB_DSN", "")
	if err := os.Unsetenv("CRYPTOMATCH_ADDR"); err != nil {
		t.Fatalf("unset: %v", err)
	}

	cfg, err := LoadServeConfig(dotenv, filepath.Join(dir, "absent.env"))
	if err != nil {
		t.Fatalf("load serve config: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("expected addr from .env, got %q", cfg.Addr)
	}
	if cfg.BaseURL != "https://override.example" {
		t.Fatalf("expected environment to win over .env, got %q", cfg.BaseURL)
	}
	if cfg.DBDSN != filepath.Join(dir, "cryptomatch", "cryptomatch.db") {
		t.Fatalf("unexpected default dsn %q", cfg.DBDSN)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	if got := DefaultConfigPath(); got != filepath.Join(dir, "cfg", "cryptomatch", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join(dir, "state", "cryptomatch", "cryptomatch.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
