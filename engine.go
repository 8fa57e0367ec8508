// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// openMode is the SQLite URI "mode" parameter.
type openMode string

const (
	modeReadOnly  openMode = "ro"
	modeReadWrite openMode = "rw"  // fails if the file does not exist
	modeCreate    openMode = "rwc" // creates the file if needed
)

// Callbacks are the caller-supplied lifecycle hooks run by the engine when
// a handle is opened. Any of them may be nil.
//
// The version recorded in the file (PRAGMA user_version) is compared with
// Config.Version on every open. A file at version 0 gets OnCreate, an older
// file gets OnUpgrade, a newer one gets OnDowngrade. The hook runs in a
// transaction that also records the new version, so a failing hook leaves
// the file at its old version.
type Callbacks struct {
	// OnConfigure runs first, before the version check. Use it for
	// connection settings that are not covered by the default pragmas.
	OnConfigure func(ctx context.Context, db *sql.DB) error

	// OnCreate builds the schema of a new database.
	OnCreate func(ctx context.Context, tx *sql.Tx) error

	// OnUpgrade moves the schema from oldVersion to newVersion.
	// If nil, only the recorded version is updated.
	OnUpgrade func(ctx context.Context, tx *sql.Tx, oldVersion, newVersion int) error

	// OnDowngrade moves the schema back to newVersion.
	// If nil, opening a newer file fails with ErrDowngrade.
	OnDowngrade func(ctx context.Context, tx *sql.Tx, oldVersion, newVersion int) error

	// OnOpen runs last, after the version is current.
	OnOpen func(ctx context.Context, db *sql.DB) error
}

// engine wraps database/sql for one database identity.
// It is the only code in the package that calls sql.Open.
type engine struct {
	version int
	cb      Callbacks
	logger  *slog.Logger
}

// open opens a handle and pings it so that DSN and file errors surface here.
func (e engine) open(ctx context.Context, path string, mode openMode, pragmas []pragma) (*sql.DB, error) {
	dsn := buildDSN(path, mode, pragmas)
	e.logger.Debug("opening database", "dsn", dsn)

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	// SQLite works best with limited connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", path, err)
	}
	return db, nil
}

// openExclusive opens an existing file read-write without creating it and
// reads the schema to prove the file is a database.
func (e engine) openExclusive(ctx context.Context, path string) (*sql.DB, error) {
	db, err := e.open(ctx, path, modeReadWrite, probePragmas)
	if err != nil {
		return nil, err
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master`).Scan(&n); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: read schema: %w", path, err)
	}
	return db, nil
}

// openOrCreate opens the file, creating an empty database if needed.
// No callbacks run.
func (e engine) openOrCreate(ctx context.Context, path string) (*sql.DB, error) {
	return e.open(ctx, path, modeCreate, persistentPragmas)
}

// openVersioned is the standard open path: it runs the configure, version,
// and open callbacks and returns a ready handle.
func (e engine) openVersioned(ctx context.Context, path string, readOnly bool) (*sql.DB, error) {
	mode, pragmas := modeCreate, persistentPragmas
	if readOnly {
		mode, pragmas = modeReadOnly, readOnlyPragmas
	}

	db, err := e.open(ctx, path, mode, pragmas)
	if err != nil {
		return nil, err
	}

	// Ensure cleanup on error
	success := false
	defer func() {
		if !success {
			_ = db.Close()
		}
	}()

	if e.cb.OnConfigure != nil {
		if err := e.cb.OnConfigure(ctx, db); err != nil {
			return nil, fmt.Errorf("configure: %w", err)
		}
	}

	version, err := fetchUserVersion(ctx, db)
	if err != nil {
		return nil, err
	}
	if version != e.version {
		if readOnly {
			return nil, fmt.Errorf("%s: version %d, want %d: %w", path, version, e.version, ErrReadOnlyUpgrade)
		}
		if err := e.migrate(ctx, db, version); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	if e.cb.OnOpen != nil {
		if err := e.cb.OnOpen(ctx, db); err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
	}

	success = true
	return db, nil
}

// createAt builds a brand-new database at path, replacing any file there,
// and runs OnCreate on it. The handle is closed before returning.
func (e engine) createAt(ctx context.Context, path string) error {
	if err := removeDatabaseFiles(path); err != nil {
		return err
	}

	db, err := e.open(ctx, path, modeCreate, exportPragmas)
	if err != nil {
		return err
	}
	if err := e.migrate(ctx, db, 0); err != nil {
		_ = db.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return db.Close()
}

// migrate runs the create, upgrade, or downgrade hook for a file currently
// at version `from` and records e.version.
func (e engine) migrate(ctx context.Context, db *sql.DB, from int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	switch {
	case from == 0:
		e.logger.Debug("creating schema", "version", e.version)
		if e.cb.OnCreate != nil {
			if err := e.cb.OnCreate(ctx, tx); err != nil {
				return fmt.Errorf("create: %w", err)
			}
		}
	case from < e.version:
		e.logger.Debug("upgrading schema", "from", from, "to", e.version)
		if e.cb.OnUpgrade != nil {
			if err := e.cb.OnUpgrade(ctx, tx, from, e.version); err != nil {
				return fmt.Errorf("upgrade %d to %d: %w", from, e.version, err)
			}
		}
	default:
		if e.cb.OnDowngrade == nil {
			return fmt.Errorf("version %d to %d: %w", from, e.version, ErrDowngrade)
		}
		e.logger.Debug("downgrading schema", "from", from, "to", e.version)
		if err := e.cb.OnDowngrade(ctx, tx, from, e.version); err != nil {
			return fmt.Errorf("downgrade %d to %d: %w", from, e.version, err)
		}
	}

	// PRAGMA does not accept bound parameters
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", e.version)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return tx.Commit()
}

// fetchUserVersion returns the version recorded in the file header.
func fetchUserVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("fetch user_version: %w", err)
	}
	return version, nil
}

// engineError marks err as an engine failure unless it already is one.
func engineError(err error) error {
	if errors.Is(err, ErrEngine) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrEngine, err)
}
