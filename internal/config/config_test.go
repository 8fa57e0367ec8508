// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "app.db", cfg.Name)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, 512, cfg.BufferSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Name, cfg.Name)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqliteseed.yaml")
	data := []byte(`
name: notes.db
dir: /var/lib/notes
version: 4
export_dir: /tmp/exports
seed:
  dir: /usr/share/notes
  file: notes-seed.db
log:
  level: debug
  format: json
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "notes.db", cfg.Name)
	assert.Equal(t, "/var/lib/notes", cfg.Dir)
	assert.Equal(t, 4, cfg.Version)
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	assert.Equal(t, "/usr/share/notes", cfg.Seed.Dir)
	assert.Equal(t, "notes-seed.db", cfg.Seed.File)
	assert.Equal(t, "json", cfg.Log.Format)
	// unset keys keep their defaults
	assert.Equal(t, 512, cfg.BufferSize)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("SQLITESEED_NAME", "env.db")
	t.Setenv("SQLITESEED_SEED_FILE", "env-seed.db")
	t.Setenv("SQLITESEED_SEED_DIR", "/seeds")
	t.Setenv("SQLITESEED_LOG_LEVEL", "warn")

	cfg, err := LoadFromBytes([]byte("name: yaml.db\nversion: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.Name)
	assert.Equal(t, 2, cfg.Version)
	assert.Equal(t, "env-seed.db", cfg.Seed.File)
	assert.Equal(t, "/seeds", cfg.Seed.Dir)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := LoadFromBytes([]byte("name: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty name", func(c *Config) { c.Name = "" }},
		{"empty dir", func(c *Config) { c.Dir = "" }},
		{"zero version", func(c *Config) { c.Version = 0 }},
		{"negative buffer", func(c *Config) { c.BufferSize = -1 }},
		{"seed file without dir", func(c *Config) { c.Seed.File = "seed.db" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestHelperConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.ExportDir = t.TempDir()
	cfg.Seed.Dir = t.TempDir()
	cfg.Seed.File = "seed.db"

	hc, err := cfg.HelperConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, cfg.Name, hc.Name)
	assert.Equal(t, cfg.Version, hc.Version)
	require.NotNil(t, hc.SeedPath)
	assert.Equal(t, "seed.db", hc.SeedPath())
	assert.NotNil(t, hc.Resources)
	assert.NotNil(t, hc.External)
}

func TestHelperConfig_Migrations(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_a.sql"), []byte("SELECT 1;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260102000000_b.sql"), []byte("SELECT 1;"), 0o644))

	cfg := DefaultConfig()
	cfg.Migrations = dir

	hc, err := cfg.HelperConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, hc.Version)
	assert.NotNil(t, hc.OnCreate)
	assert.NotNil(t, hc.OnUpgrade)
}

func TestHelperConfig_MissingMigrations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Migrations = filepath.Join(t.TempDir(), "missing")

	_, err := cfg.HelperConfig(nil)
	assert.Error(t, err)
}
