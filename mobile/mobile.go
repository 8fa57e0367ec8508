// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package mobile provides gomobile-bindable functions for provisioning a
// seeded database on a device. Structured results are returned as JSON
// strings since gomobile cannot export maps, slices, or most structs.
package mobile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/mdhender/sqliteseed"
	"github.com/mdhender/sqliteseed/internal/config"

	// Required by gomobile bind at build time
	_ "golang.org/x/mobile/bind"
)

var (
	mu sync.Mutex
	h  *sqliteseed.Helper
)

// Init configures the database helper. configYAML may be empty to use
// defaults. dataDir is the app's private database directory (for example
// Context.getDatabasePath("x").getParent()) and overrides the config.
// Calling Init again replaces the helper; open handles are not affected.
func Init(configYAML string, dataDir string) error {
	mu.Lock()
	defer mu.Unlock()

	cfg, err := config.LoadFromBytes([]byte(configYAML))
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if dataDir != "" {
		cfg.Dir = dataDir
	}

	hc, err := cfg.HelperConfig(cfg.Logger(os.Stderr))
	if err != nil {
		return err
	}

	helper, err := sqliteseed.New(hc)
	if err != nil {
		return err
	}
	h = helper
	return nil
}

// Provision opens and closes a writable handle so the database file exists,
// seeding it if needed.
// Returns JSON: {"path":"...","state":"seeded"} or {"error":"..."}.
func Provision() string {
	mu.Lock()
	defer mu.Unlock()

	if h == nil {
		return `{"error":"not initialized"}`
	}
	if err := touch(h); err != nil {
		return errorJSON(err)
	}
	data, _ := json.Marshal(map[string]string{"path": h.Path(), "state": h.State().String()})
	return string(data)
}

func touch(h *sqliteseed.Helper) error {
	db, err := h.Writable(context.Background())
	if err != nil {
		return err
	}
	return db.Close()
}

// GetStatus inspects the database file without provisioning it.
// Returns JSON: {"path":"...","exists":true,...} or {"error":"..."}.
func GetStatus() string {
	mu.Lock()
	defer mu.Unlock()

	if h == nil {
		return `{"error":"not initialized"}`
	}
	st, err := h.Status(context.Background())
	if err != nil {
		return errorJSON(err)
	}
	data, _ := json.Marshal(map[string]any{
		"path":         st.Path,
		"exists":       st.Exists,
		"probe":        st.Probe.String(),
		"size":         st.Size,
		"user_version": st.UserVersion,
	})
	return string(data)
}

// DumpDatabase copies the database file to fileName in the export
// directory. Provision must have run at least once.
func DumpDatabase(fileName string) bool {
	mu.Lock()
	defer mu.Unlock()

	if h == nil {
		return false
	}
	return h.DumpDatabase(fileName)
}

// DumpDatabaseOnCreate writes a freshly created database to fileName in
// the export directory.
func DumpDatabaseOnCreate(fileName string) bool {
	mu.Lock()
	defer mu.Unlock()

	if h == nil {
		return false
	}
	return h.DumpDatabaseOnCreate(fileName)
}

// GetVersion returns the library version string.
func GetVersion() string {
	return fmt.Sprint(sqliteseed.Version())
}

func errorJSON(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}
