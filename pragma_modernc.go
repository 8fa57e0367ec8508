// Copyright (c) 2026 Michael D Henderson. All rights reserved.

//go:build !mattn

package sqliteseed

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// driverName is the database/sql driver registered by modernc.org/sqlite.
const driverName = "sqlite"

// pragma represents a SQLite pragma setting.
type pragma struct {
	name  string
	value string
}

// probePragmas must not change the file. No journal_mode here: switching
// to WAL would rewrite the header of the file being probed.
var probePragmas = []pragma{
	{name: "busy_timeout", value: "5000"},
}

// persistentPragmas are optimized for durable persistent databases.
var persistentPragmas = []pragma{
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
	{name: "journal_mode", value: "WAL"},
	{name: "synchronous", value: "NORMAL"},
	{name: "temp_store", value: "FILE"},
	{name: "locking_mode", value: "NORMAL"},
}

// readOnlyPragmas are used when falling back to a read-only handle.
var readOnlyPragmas = []pragma{
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
}

// exportPragmas keep exported files self-contained (no WAL sidecar), so the
// result can be bundled as a seed.
var exportPragmas = []pragma{
	{name: "foreign_keys", value: "ON"},
	{name: "busy_timeout", value: "5000"},
	{name: "journal_mode", value: "DELETE"},
	{name: "synchronous", value: "FULL"},
}

// buildDSN constructs a DSN for modernc.org/sqlite.
// modernc uses the syntax: file:path?mode=rw&_pragma=name(value)&_pragma=name2(value2)
func buildDSN(path string, mode openMode, pragmas []pragma) string {
	var sb strings.Builder

	sb.WriteString("file:")
	sb.WriteString(path)
	sb.WriteString("?mode=")
	sb.WriteString(string(mode))

	for _, p := range pragmas {
		fmt.Fprintf(&sb, "&_pragma=%s(%s)", p.name, p.value)
	}

	return sb.String()
}

// sqliteCode returns the primary SQLite result code carried by err.
func sqliteCode(err error) (int, bool) {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return 0, false
	}
	return se.Code() & 0xff, true
}
