package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	if cfg.Library.DataDir != "data/library" || cfg.Library.ImportDir != "data/import" {
		t.Errorf("library dirs = %+v", cfg.Library)
	}
	if cfg.Watcher.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d", cfg.Watcher.MaxConcurrent)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsNegativeConcurrency(t *testing.T) {
	cfg := &Config{Watcher: WatcherConfig{MaxConcurrent: -1}}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted negative max_concurrent")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  listen: ":9090"
library:
  data_dir: /tmp/vault
watcher:
  enabled: true
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	if cfg.Library.DataDir != "/tmp/vault" {
		t.Errorf("DataDir = %q", cfg.Library.DataDir)
	}
	if !cfg.Watcher.Enabled {
		t.Error("watcher not enabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
	// Unset fields still get defaults.
	if cfg.Library.ImportDir != "data/import" {
		t.Errorf("ImportDir = %q", cfg.Library.ImportDir)
	}
}
