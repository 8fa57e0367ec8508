// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteseed

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"strconv"
	"time"
)

//go:embed schema.sql
var schemaFS embed.FS

// script represents a single schema script file.
type script struct {
	ID      int64
	Comment string
	Path    string
}

// reScriptFile matches YYYYMMDDHHMMSS_comment.sql
var reScriptFile = regexp.MustCompile(`^(\d{14})_(.+)\.sql$`)

// ScriptCallbacks builds create and upgrade callbacks from SQL scripts.
//
// Scripts must be named YYYYMMDDHHMMSS_comment.sql and are applied in
// lexicographic order. Applied scripts are recorded in a schema_migrations
// table, so OnUpgrade applies only the scripts a file has not seen, and a
// seeded file that lacks the table gets it on upgrade.
//
// The returned version is one more than the number of scripts, so adding a
// script bumps the version and triggers OnUpgrade on existing files.
// OnDowngrade is left nil.
func ScriptCallbacks(fsys fs.FS, logger *slog.Logger) (int, Callbacks, error) {
	if logger == nil {
		logger = slog.Default()
	}

	scripts, err := readScripts(fsys, logger)
	if err != nil {
		return 0, Callbacks{}, fmt.Errorf("list scripts: %w", err)
	}

	apply := func(ctx context.Context, tx *sql.Tx) error {
		if err := applySchemaInit(ctx, tx); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
		return applyPending(ctx, tx, fsys, scripts, logger)
	}

	cb := Callbacks{
		OnCreate: apply,
		OnUpgrade: func(ctx context.Context, tx *sql.Tx, _, _ int) error {
			return apply(ctx, tx)
		},
	}
	return len(scripts) + 1, cb, nil
}

// applySchemaInit creates the schema_migrations table if it is missing.
func applySchemaInit(ctx context.Context, tx *sql.Tx) error {
	sqlBytes, err := fs.ReadFile(schemaFS, "schema.sql")
	if err != nil {
		return fmt.Errorf("read schema.sql: %w", err)
	}

	if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("exec schema.sql: %w", err)
	}

	// Record the init as script ID 0
	ts := time.Now().UTC().Unix()
	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO schema_migrations (id, comment, path, applied_at)
		VALUES (0, 'init', 'schema.sql', ?)
	`, ts)
	if err != nil {
		return fmt.Errorf("record init: %w", err)
	}
	return nil
}

// applyPending applies every script not yet recorded in schema_migrations.
func applyPending(ctx context.Context, tx *sql.Tx, fsys fs.FS, scripts []script, logger *slog.Logger) error {
	applied, err := fetchAppliedPaths(ctx, tx)
	if err != nil {
		return fmt.Errorf("fetch applied: %w", err)
	}

	now := time.Now().UTC()
	for _, s := range scripts {
		if applied[s.Path] {
			continue
		}

		logger.Debug("applying script", "path", s.Path)
		if err := applyScript(ctx, tx, fsys, s, now); err != nil {
			return fmt.Errorf("apply %s: %w", s.Path, err)
		}
	}
	return nil
}

// applyScript executes a single script and records it.
func applyScript(ctx context.Context, tx *sql.Tx, fsys fs.FS, s script, now time.Time) error {
	sqlBytes, err := fs.ReadFile(fsys, s.Path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schema_migrations (id, comment, path, applied_at)
		VALUES (?, ?, ?, ?)
	`, s.ID, s.Comment, s.Path, now.Unix())
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return nil
}

// fetchAppliedPaths returns the set of recorded script paths.
func fetchAppliedPaths(ctx context.Context, tx *sql.Tx) (map[string]bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT path FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		applied[path] = true
	}
	return applied, rows.Err()
}

// readScripts returns the scripts at the top of fsys in name order, which
// fs.ReadDir guarantees. Entries that are not scripts are skipped. Two
// scripts may not share a timestamp.
func readScripts(fsys fs.FS, logger *slog.Logger) ([]script, error) {
	if fsys == nil {
		return nil, nil
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var scripts []script
	for _, entry := range entries {
		s, ok := parseScriptName(entry)
		if !ok {
			logger.Debug("not a script", "name", entry.Name())
			continue
		}
		// same timestamp prefix sorts adjacent
		if n := len(scripts); n > 0 && scripts[n-1].ID == s.ID {
			return nil, fmt.Errorf("%w: %s and %s share timestamp %d", ErrInvalidConfig, scripts[n-1].Path, s.Path, s.ID)
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// parseScriptName reports whether entry is a YYYYMMDDHHMMSS_comment.sql file.
func parseScriptName(entry fs.DirEntry) (script, bool) {
	if !entry.Type().IsRegular() {
		return script{}, false
	}
	m := reScriptFile.FindStringSubmatch(entry.Name())
	if m == nil {
		return script{}, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return script{}, false
	}
	return script{ID: id, Comment: m[2], Path: entry.Name()}, true
}
