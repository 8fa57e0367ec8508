// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteseed_test

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/mdhender/sqliteseed"
)

//go:embed testdata/valid/*
var validScriptsFS embed.FS

//go:embed testdata/invalid/*.sql
var invalidScriptsFS embed.FS

// validScripts returns a sub-filesystem rooted at the valid scripts directory.
func validScripts() fs.FS {
	sub, err := fs.Sub(validScriptsFS, "testdata/valid")
	if err != nil {
		panic(err)
	}
	return sub
}

// invalidScripts returns a sub-filesystem rooted at the invalid scripts directory.
func invalidScripts() fs.FS {
	sub, err := fs.Sub(invalidScriptsFS, "testdata/invalid")
	if err != nil {
		panic(err)
	}
	return sub
}

func openWithScripts(t *testing.T, dir string, fsys fs.FS) (*sqliteseed.Helper, int) {
	t.Helper()

	version, cb, err := sqliteseed.ScriptCallbacks(fsys, quietLogger())
	if err != nil {
		t.Fatalf("ScriptCallbacks failed: %v", err)
	}
	h, err := sqliteseed.New(sqliteseed.Config{
		Name:      "app.db",
		Dir:       dir,
		Version:   version,
		Logger:    quietLogger(),
		Callbacks: cb,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return h, version
}

func countScripts(t *testing.T, h *sqliteseed.Helper) int {
	t.Helper()

	db, err := h.Readable(context.Background())
	if err != nil {
		t.Fatalf("Readable failed: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	return count
}

// TestScriptCallbacks_Create tests that a new file gets every script.
func TestScriptCallbacks_Create(t *testing.T) {
	h, version := openWithScripts(t, t.TempDir(), validScripts())

	if version != 3 {
		t.Errorf("expected version 3 (init + 2 scripts), got %d", version)
	}
	if n := countScripts(t, h); n != 3 {
		t.Errorf("expected 3 recorded scripts, got %d", n)
	}

	db, err := h.Writable(context.Background())
	if err != nil {
		t.Fatalf("Writable failed: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`INSERT INTO users (email) VALUES ('a@example.com')`); err != nil {
		t.Errorf("users table should exist: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO notes (user_id, body) VALUES (1, 'hi')`); err != nil {
		t.Errorf("notes table should exist: %v", err)
	}
}

// TestScriptCallbacks_Upgrade tests that only new scripts run on upgrade.
func TestScriptCallbacks_Upgrade(t *testing.T) {
	dir := t.TempDir()

	first := fstest.MapFS{
		"20260101000000_create_users.sql": {Data: []byte(`CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL UNIQUE);`)},
	}
	h, version := openWithScripts(t, dir, first)
	if version != 2 {
		t.Fatalf("expected version 2, got %d", version)
	}
	if n := countScripts(t, h); n != 2 {
		t.Fatalf("expected 2 recorded scripts, got %d", n)
	}

	// The full set re-declares users; it must not run again.
	h, version = openWithScripts(t, dir, validScripts())
	if version != 3 {
		t.Fatalf("expected version 3, got %d", version)
	}
	if n := countScripts(t, h); n != 3 {
		t.Errorf("expected 3 recorded scripts after upgrade, got %d", n)
	}
}

// TestScriptCallbacks_DuplicateID tests that duplicate script IDs are rejected.
func TestScriptCallbacks_DuplicateID(t *testing.T) {
	_, _, err := sqliteseed.ScriptCallbacks(invalidScripts(), quietLogger())
	if err == nil {
		t.Fatal("expected error for duplicate script IDs")
	}
	if !errors.Is(err, sqliteseed.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

// TestScriptCallbacks_SkipsNonScripts tests that only timestamped .sql
// files at the top level are used.
func TestScriptCallbacks_SkipsNonScripts(t *testing.T) {
	fsys := fstest.MapFS{
		"20260101000000_items.sql":     {Data: []byte(`CREATE TABLE items (id INTEGER PRIMARY KEY);`)},
		"README.md":                    {Data: []byte("notes")},
		"2026_short.sql":               {Data: []byte("SELECT 1;")},
		"sub/20260102000000_later.sql": {Data: []byte("SELECT 1;")},
	}
	version, _, err := sqliteseed.ScriptCallbacks(fsys, quietLogger())
	if err != nil {
		t.Fatalf("ScriptCallbacks failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2 (init + 1 script), got %d", version)
	}
}

// TestScriptCallbacks_Empty tests that no scripts still yields a usable version.
func TestScriptCallbacks_Empty(t *testing.T) {
	h, version := openWithScripts(t, t.TempDir(), fstest.MapFS{})
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}
	if n := countScripts(t, h); n != 1 {
		t.Errorf("expected only the init record, got %d", n)
	}
}
