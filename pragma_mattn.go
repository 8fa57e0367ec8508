// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build mattn

package sqliteseed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// driverName is the database/sql driver registered by github.com/mattn/go-sqlite3.
const driverName = "sqlite3"

// pragma represents a SQLite pragma setting.
type pragma struct {
	name  string
	value string
}

// probePragmas must not change the file.
var probePragmas = []pragma{
	{name: "_busy_timeout", value: "5000"},
}

// persistentPragmas are optimized for durable persistent databases.
var persistentPragmas = []pragma{
	{name: "_foreign_keys", value: "1"},
	{name: "_busy_timeout", value: "5000"},
	{name: "_journal_mode", value: "WAL"},
	{name: "_synchronous", value: "NORMAL"},
}

// readOnlyPragmas are used when falling back to a read-only handle.
var readOnlyPragmas = []pragma{
	{name: "_foreign_keys", value: "1"},
	{name: "_busy_timeout", value: "5000"},
}

// exportPragmas keep exported files self-contained (no WAL sidecar).
var exportPragmas = []pragma{
	{name: "_foreign_keys", value: "1"},
	{name: "_busy_timeout", value: "5000"},
	{name: "_journal_mode", value: "DELETE"},
	{name: "_synchronous", value: "FULL"},
}

// buildDSN constructs a DSN for github.com/mattn/go-sqlite3.
// mattn uses the syntax: file:path?mode=rw&_foreign_keys=1&_journal_mode=WAL
func buildDSN(path string, mode openMode, pragmas []pragma) string {
	var sb strings.Builder

	sb.WriteString("file:")
	sb.WriteString(path)
	sb.WriteString("?mode=")
	sb.WriteString(string(mode))

	for _, p := range pragmas {
		fmt.Fprintf(&sb, "&%s=%s", p.name, p.value)
	}

	return sb.String()
}

// sqliteCode returns the primary SQLite result code carried by err.
func sqliteCode(err error) (int, bool) {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return 0, false
	}
	return int(se.Code), true
}
