package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Library LibraryConfig `yaml:"library"`
	Watcher WatcherConfig `yaml:"watcher"`
	Sync    SyncConfig    `yaml:"sync"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
}

type LibraryConfig struct {
	DataDir   string `yaml:"data_dir"`
	ImportDir string `yaml:"import_dir"`
}

type WatcherConfig struct {
	Enabled       bool `yaml:"enabled"`
	MaxConcurrent int  `yaml:"max_concurrent"`
}

type SyncConfig struct {
	URL     string `yaml:"url"`
	Key     string `yaml:"key"`
	UserID  string `yaml:"user_id"`
	Workers int    `yaml:"workers"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and validates the YAML config at path. A missing file is fine:
// defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Library.DataDir == "" {
		c.Library.DataDir = "data/library"
	}
	if c.Library.ImportDir == "" {
		c.Library.ImportDir = "data/import"
	}
	if c.Watcher.MaxConcurrent == 0 {
		c.Watcher.MaxConcurrent = 2
	}
	if c.Sync.Workers == 0 {
		c.Sync.Workers = 3
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Watcher.MaxConcurrent < 0 {
		return fmt.Errorf("watcher.max_concurrent must not be negative")
	}
	return nil
}
