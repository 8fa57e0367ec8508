// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteseed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// ProbeResult classifies the file found at a database path.
type ProbeResult int

const (
	// ProbeNotFound means there is no file at the path.
	ProbeNotFound ProbeResult = iota
	// ProbeCorrupt means something is at the path but it cannot be opened
	// read-write as a database: wrong format, wrong type, or no permission.
	ProbeCorrupt
	// ProbeOK means the file opened read-write and its schema is readable.
	ProbeOK
	// ProbeUnavailable means the file could not be checked right now: the
	// context ended, the file was busy or locked, or the engine failed in a
	// way that says nothing about the file's contents.
	ProbeUnavailable
)

// Primary SQLite result codes used to classify probe failures.
const (
	codePerm    = 3
	codeCorrupt = 11
	codeNotADB  = 26
)

func (r ProbeResult) String() string {
	switch r {
	case ProbeNotFound:
		return "not-found"
	case ProbeCorrupt:
		return "corrupt"
	case ProbeOK:
		return "ok"
	case ProbeUnavailable:
		return "unavailable"
	}
	return fmt.Sprintf("ProbeResult(%d)", int(r))
}

// probe checks for a usable database at path without creating or changing
// it. The error, wrapping ErrProbeFailed, explains any result but ProbeOK.
//
// Only a file that SQLite rejects by its contents, or one we may not open,
// is ProbeCorrupt. Everything else that goes wrong is ProbeUnavailable, and
// the file must be left alone.
func probe(ctx context.Context, e engine, path string) (ProbeResult, error) {
	if err := ctx.Err(); err != nil {
		return ProbeUnavailable, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return ProbeNotFound, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	} else if err != nil {
		return classifyOpenError(ctx, err), fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}
	if !info.Mode().IsRegular() {
		return ProbeCorrupt, fmt.Errorf("%w: %s: not a regular file", ErrProbeFailed, path)
	}

	db, err := e.openExclusive(ctx, path)
	if err != nil {
		return classifyOpenError(ctx, err), fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}
	if err := db.Close(); err != nil {
		return ProbeUnavailable, fmt.Errorf("%w: %s: close: %w", ErrProbeFailed, path, err)
	}
	return ProbeOK, nil
}

// classifyOpenError maps an open failure to ProbeCorrupt or ProbeUnavailable.
func classifyOpenError(ctx context.Context, err error) ProbeResult {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ProbeUnavailable
	}
	if errors.Is(err, fs.ErrPermission) {
		return ProbeCorrupt
	}
	code, ok := sqliteCode(err)
	if !ok {
		return ProbeUnavailable
	}
	switch code {
	case codeNotADB, codeCorrupt, codePerm:
		return ProbeCorrupt
	}
	// busy, locked, interrupted, out of memory, ...
	return ProbeUnavailable
}

// DatabaseStatus describes the file at a database path.
type DatabaseStatus struct {
	Path        string
	Exists      bool
	Probe       ProbeResult
	Size        int64
	UserVersion int
}

// Status inspects the database at path without creating or modifying it.
// A missing or unreadable file is reported in the result, not as an error.
func Status(ctx context.Context, path string) (*DatabaseStatus, error) {
	return status(ctx, engine{logger: slog.Default()}, path)
}

func status(ctx context.Context, e engine, path string) (*DatabaseStatus, error) {
	st := &DatabaseStatus{Path: path}

	result, err := probe(ctx, e, path)
	if result == ProbeUnavailable && ctx.Err() != nil {
		return nil, err
	}
	st.Probe = result
	if result == ProbeNotFound {
		return st, nil
	}
	st.Exists = true

	if info, err := os.Stat(path); err == nil {
		st.Size = info.Size()
	}
	if result != ProbeOK {
		return st, nil
	}

	db, err := e.open(ctx, path, modeReadOnly, readOnlyPragmas)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	st.UserVersion, err = fetchUserVersion(ctx, db)
	if err != nil {
		return nil, err
	}
	return st, nil
}
