// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package config loads the settings used by the sqliteseed command.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/mdhender/sqliteseed"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SQLITESEED_"

type SeedConfig struct {
	Dir  string `yaml:"dir"  env:"DIR"`  // directory holding bundled seeds
	File string `yaml:"file" env:"FILE"` // seed file name inside Dir; empty disables seeding
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // "text" or "json"
}

type Config struct {
	Name       string     `yaml:"name"        env:"NAME"`
	Dir        string     `yaml:"dir"         env:"DIR"`
	Version    int        `yaml:"version"     env:"VERSION"`
	Migrations string     `yaml:"migrations"  env:"MIGRATIONS"` // directory of schema scripts
	ExportDir  string     `yaml:"export_dir"  env:"EXPORT_DIR"` // empty means the downloads directory
	BufferSize int        `yaml:"buffer_size" env:"BUFFER_SIZE"`
	Seed       SeedConfig `yaml:"seed"        envPrefix:"SEED_"`
	Log        LogConfig  `yaml:"log"         envPrefix:"LOG_"`
}

func DefaultConfig() *Config {
	dir := "databases"
	if base, err := os.UserConfigDir(); err == nil {
		dir = filepath.Join(base, "sqliteseed", "databases")
	}
	return &Config{
		Name:       "app.db",
		Dir:        dir,
		Version:    1,
		BufferSize: 512,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config file, merges it with defaults, and applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses YAML over the defaults and applies environment
// overrides. Empty input yields the defaults.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if c.Version < 1 && c.Migrations == "" {
		return fmt.Errorf("version must be >= 1, got %d", c.Version)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("buffer_size must not be negative, got %d", c.BufferSize)
	}
	if c.Seed.File != "" && c.Seed.Dir == "" {
		return fmt.Errorf("seed.dir is required when seed.file is set")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.Log.Format)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Logger builds a slog.Logger writing to w at the configured level and format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// HelperConfig translates c into a sqliteseed.Config. When Migrations is
// set, the scripts in that directory supply the version and callbacks.
func (c *Config) HelperConfig(logger *slog.Logger) (sqliteseed.Config, error) {
	hc := sqliteseed.Config{
		Name:       c.Name,
		Dir:        c.Dir,
		Version:    c.Version,
		BufferSize: c.BufferSize,
		Logger:     logger,
	}

	if c.Migrations != "" {
		version, cb, err := sqliteseed.ScriptCallbacks(os.DirFS(c.Migrations), logger)
		if err != nil {
			return hc, fmt.Errorf("%s: %w", c.Migrations, err)
		}
		hc.Version, hc.Callbacks = version, cb
	}

	if c.Seed.File != "" {
		seed := c.Seed.File
		hc.SeedPath = func() string { return seed }
		hc.Resources = sqliteseed.FSResources(os.DirFS(c.Seed.Dir))
	}

	if c.ExportDir != "" {
		hc.External = sqliteseed.DirStorage(c.ExportDir)
	}

	return hc, nil
}
