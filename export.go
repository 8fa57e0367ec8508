// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteseed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// exportPath resolves fileName inside the external storage directory.
func (h *Helper) exportPath(fileName string) (string, error) {
	if fileName == "" {
		return "", fmt.Errorf("%w: export file name is required", ErrInvalidConfig)
	}
	dir, err := h.cfg.External.Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}
	dest := filepath.Join(dir, fileName)
	if sameFile(dest, h.path) {
		return "", fmt.Errorf("%w: %s: export would overwrite the database", ErrInvalidConfig, dest)
	}
	return dest, nil
}

// Export copies the current database file byte for byte to fileName in
// the external storage directory.
//
// The database file must already exist; Export fails otherwise and writes
// nothing. Export does not take the provisioning lock and does not
// checkpoint WAL frames: close open handles first (or use Snapshot) when
// the copy must include recent writes.
func (h *Helper) Export(ctx context.Context, fileName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest, err := h.exportPath(fileName)
	if err != nil {
		return err
	}

	n, err := copyToExternal(h.cfg.External, dest, h.path, h.cfg.BufferSize)
	if err != nil {
		return err
	}

	h.cfg.Logger.Info("database exported", "path", h.path, "dest", dest, "bytes", n)
	return nil
}

// ExportOnCreate creates a new database at fileName in the external storage
// directory and runs OnCreate on it, leaving the live database untouched.
// The result is stamped with Config.Version so it can be bundled as a seed.
// An existing file at the destination is replaced.
func (h *Helper) ExportOnCreate(ctx context.Context, fileName string) error {
	dest, err := h.exportPath(fileName)
	if err != nil {
		return err
	}
	if err := h.engine.createAt(ctx, dest); err != nil {
		return engineError(err)
	}

	h.cfg.Logger.Info("fresh database exported", "dest", dest, "version", h.cfg.Version)
	return nil
}

// Snapshot writes a consistent copy of the database, including frames
// still in the WAL, to fileName in the external storage directory using
// VACUUM INTO. Unlike Export it opens a writable handle, provisioning the
// database first if needed.
func (h *Helper) Snapshot(ctx context.Context, fileName string) error {
	dest, err := h.exportPath(fileName)
	if err != nil {
		return err
	}
	// VACUUM INTO refuses to overwrite a non-empty file
	if err := removeDatabaseFiles(dest); err != nil {
		return fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	db, err := h.Writable(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, dest); err != nil {
		return fmt.Errorf("%w: %s: vacuum into: %w", ErrCopyFailed, dest, err)
	}

	h.cfg.Logger.Info("database snapshot written", "path", h.path, "dest", dest)
	return nil
}

// DumpDatabase copies the current database file to fileName in the
// external storage directory and reports whether it succeeded. A handle
// must have been requested at least once so that the file exists.
func (h *Helper) DumpDatabase(fileName string) bool {
	if err := h.Export(context.Background(), fileName); err != nil {
		h.cfg.Logger.Error("failed to dump database, has it been created yet?", "file", fileName, "error", err)
		return false
	}
	return true
}

// DumpDatabaseOnCreate writes a freshly created database to fileName in
// the external storage directory and reports whether it succeeded.
func (h *Helper) DumpDatabaseOnCreate(fileName string) bool {
	if err := h.ExportOnCreate(context.Background(), fileName); err != nil {
		h.cfg.Logger.Error("failed to dump database", "file", fileName, "error", err)
		return false
	}
	return true
}
