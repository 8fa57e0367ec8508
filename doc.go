// Copyright (c) 2026 Michael D Henderson. All rights reserved.

// Package sqliteseed provisions a local SQLite database file on first use,
// copying it from a bundled seed image when no usable file exists, and
// hands out ready-to-use handles.
//
// The package implements a database lifecycle model where:
//   - The first handle request probes the database path for a usable file
//   - A missing or unreadable file is replaced by the seed, once per Helper
//   - A seed that cannot be copied is logged and the engine creates an
//     empty database instead; callers always get a handle
//   - Caller-supplied callbacks create, upgrade, or downgrade the schema
//     based on PRAGMA user_version, like a classic open helper
//
// # Basic Usage
//
//	//go:embed seed/app.db
//	var seedFS embed.FS
//
//	func main() {
//	    h, err := sqliteseed.New(sqliteseed.Config{
//	        Name:      "app.db",
//	        Dir:       "/var/lib/myapp/databases",
//	        Version:   1,
//	        SeedPath:  func() string { return "seed/app.db" },
//	        Resources: sqliteseed.FSResources(seedFS),
//	    })
//	    db, err := h.Writable(ctx)
//	    defer db.Close()
//	}
//
// # Driver Support
//
// This package supports two SQLite drivers via build tags:
//   - modernc.org/sqlite (default, pure Go, no CGO)
//   - github.com/mattn/go-sqlite3 (CGO, use -tags mattn)
//
// The selected driver is imported by this package.
//
// # Exports
//
// DumpDatabase copies the live file to external storage (the downloads
// directory by default) so it can be bundled as the next seed.
// DumpDatabaseOnCreate writes what a freshly created database looks like
// without touching the live file. Both report success as a bool; Export
// and ExportOnCreate return the error instead.
//
// # Schema Scripts
//
// ScriptCallbacks turns a directory of YYYYMMDDHHMMSS_comment.sql files
// into OnCreate and OnUpgrade callbacks for callers that do not want to
// write their own.
package sqliteseed
