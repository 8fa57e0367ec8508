// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
)

// Config holds database configuration options.
type Config struct {
	// Name is the logical database name, e.g. "app.db". It must be a plain
	// file name; the directory comes from Dir or Paths.
	Name string

	// Dir is the private directory that holds the database file. It must be
	// absolute and is created if missing. Ignored when Paths is set.
	Dir string

	// Paths resolves Name to a file path. Defaults to DirResolver(Dir).
	Paths PathResolver

	// Version is the schema version the callbacks bring a file to.
	// Must be at least 1.
	Version int

	// SeedPath names the bundled seed image to copy into place when no
	// usable database file exists. A nil func or an empty name disables
	// seeding; the engine then creates an empty database.
	SeedPath func() string

	// Resources opens the seed named by SeedPath.
	Resources ResourceReader

	// External receives exports. Defaults to DownloadsStorage.
	External ExternalStorage

	// BufferSize is the chunk size for seed and export copies. Default: 512.
	BufferSize int

	// Logger for operational logging. Uses slog.Default() if nil.
	Logger *slog.Logger

	// Callbacks run whenever a handle is opened.
	Callbacks
}

// defaults returns a copy of cfg with default values applied.
func (cfg Config) defaults() Config {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Paths == nil && cfg.Dir != "" {
		cfg.Paths = DirResolver(cfg.Dir)
	}
	if cfg.External == nil {
		cfg.External = DownloadsStorage{}
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	return cfg
}

// validate checks the fields that New cannot default.
func (cfg Config) validate() error {
	if cfg.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if cfg.Name != filepath.Base(cfg.Name) || cfg.Name == "." || cfg.Name == ".." {
		return fmt.Errorf("%w: %q: name must be a plain file name", ErrInvalidConfig, cfg.Name)
	}
	if cfg.Version < 1 {
		return fmt.Errorf("%w: version must be >= 1, got %d", ErrInvalidConfig, cfg.Version)
	}
	if cfg.Paths == nil {
		return fmt.Errorf("%w: Dir or Paths is required", ErrInvalidConfig)
	}
	return nil
}

// State is the provisioning state of a Helper.
type State int

const (
	// StateUnknown means no usable file has been found or seeded yet.
	StateUnknown State = iota
	// StatePresent means a usable file already existed.
	StatePresent
	// StateSeeded means the file was copied from the seed.
	StateSeeded
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StatePresent:
		return "present"
	case StateSeeded:
		return "seeded"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Helper hands out handles to one database file, provisioning the file
// from a seed the first time a handle is requested.
//
// A Helper is safe for concurrent use. Provisioning runs at most once at a
// time per Helper; once it succeeds the Helper never provisions again.
type Helper struct {
	cfg    Config
	path   string
	engine engine

	mu    sync.Mutex // guards state and serializes provisioning
	state State
}

// New returns a Helper for cfg. It resolves the database path but does not
// touch the database file.
func New(cfg Config) (*Helper, error) {
	cfg = cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	path, err := cfg.Paths.DatabasePath(cfg.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Helper{
		cfg:  cfg,
		path: path,
		engine: engine{
			version: cfg.Version,
			cb:      cfg.Callbacks,
			logger:  cfg.Logger,
		},
	}, nil
}

// Name returns the logical database name.
func (h *Helper) Name() string {
	return h.cfg.Name
}

// Path returns the file that backs the database.
func (h *Helper) Path() string {
	return h.path
}

// State reports the provisioning state.
func (h *Helper) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Readable returns a handle for reading. It tries a writable handle first
// and falls back to a read-only one if that fails.
//
// Seeding problems are logged, never returned: if the seed cannot be
// copied the caller gets a handle on an engine-created database. The
// returned error, if any, wraps ErrEngine. That includes an ended context
// and an existing file that could not be checked (busy or locked); the
// file is left untouched then. The caller closes the handle.
func (h *Helper) Readable(ctx context.Context) (*sql.DB, error) {
	return h.acquire(ctx, true)
}

// Writable returns a handle for reading and writing. See Readable for
// how errors are reported. The caller closes the handle.
func (h *Helper) Writable(ctx context.Context) (*sql.DB, error) {
	return h.acquire(ctx, false)
}

func (h *Helper) acquire(ctx context.Context, readable bool) (*sql.DB, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, engineError(err)
	}
	if seed := h.seedPath(); seed != "" && h.state == StateUnknown {
		if err := h.provision(ctx, seed); err != nil {
			return nil, engineError(err)
		}
	}

	db, err := h.engine.openVersioned(ctx, h.path, false)
	if err == nil {
		return db, nil
	}
	if !readable {
		return nil, engineError(err)
	}

	h.cfg.Logger.Warn("opening read-only after writable open failed", "path", h.path, "error", err)
	db, rerr := h.engine.openVersioned(ctx, h.path, true)
	if rerr != nil {
		return nil, engineError(errors.Join(err, rerr))
	}
	return db, nil
}

func (h *Helper) seedPath() string {
	if h.cfg.SeedPath == nil {
		return ""
	}
	return h.cfg.SeedPath()
}

// provision makes sure a usable file exists at h.path, copying the seed if
// it does not. Must be called with h.mu held.
//
// Seed failures are logged and leave h.state at StateUnknown so the next
// request tries again. provision returns an error only when it stopped
// before the seed copy: the context ended, or the probe could not tell
// whether the existing file is usable, in which case the file is untouched.
func (h *Helper) provision(ctx context.Context, seed string) error {
	logger := h.cfg.Logger.With("path", h.path)

	result, err := probe(ctx, h.engine, h.path)
	switch result {
	case ProbeOK:
		logger.Debug("database present")
		h.state = StatePresent
		return nil
	case ProbeUnavailable:
		logger.Warn("could not check database, leaving it in place", "error", err)
		return err
	}
	logger.Debug("no usable database", "probe", result, "error", err)

	if err := ctx.Err(); err != nil {
		return err
	}

	// Let the engine create the file and its directory before the copy.
	// Failure here is expected for corrupt files and is not fatal.
	if db, err := h.engine.openOrCreate(ctx, h.path); err != nil {
		logger.Debug("open or create", "error", err)
	} else if err := db.Close(); err != nil {
		logger.Debug("open or create: close", "error", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	n, err := h.installSeed(seed)
	if err != nil {
		logger.Error("could not create database file from seed", "seed", seed, "error", err)
		return nil
	}

	logger.Info("database created from seed", "seed", seed, "bytes", n)
	h.state = StateSeeded
	return nil
}

// installSeed copies the seed resource over h.path.
func (h *Helper) installSeed(seed string) (int64, error) {
	if h.cfg.Resources == nil {
		return 0, fmt.Errorf("%w: %s: no resource reader", ErrSeedUnavailable, seed)
	}
	src, err := h.cfg.Resources.OpenResource(seed)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrSeedUnavailable, seed, err)
	}
	defer src.Close()

	return installFile(h.path, src, h.cfg.BufferSize)
}

// Status inspects the file backing h without provisioning it.
func (h *Helper) Status(ctx context.Context) (*DatabaseStatus, error) {
	return status(ctx, h.engine, h.path)
}
