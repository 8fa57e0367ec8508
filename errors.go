// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteseed

import (
	"github.com/juju/errors"
)

const (
	// ErrInvalidConfig is returned by New when the Config cannot describe a database.
	ErrInvalidConfig = errors.ConstError("invalid config")

	// ErrProbeFailed marks an existing file that is missing, unreadable, or
	// not a database. Provisioning treats it as "absent".
	ErrProbeFailed = errors.ConstError("probe failed")

	// ErrSeedUnavailable marks a seed resource that could not be opened.
	ErrSeedUnavailable = errors.ConstError("seed unavailable")

	// ErrCopyFailed marks an I/O failure while copying a seed or an export.
	ErrCopyFailed = errors.ConstError("copy failed")

	// ErrEngine marks a failure of the SQL engine to open or create a
	// database. It is the only failure Readable and Writable return.
	ErrEngine = errors.ConstError("engine failure")

	// ErrDowngrade is returned when the file is newer than Config.Version
	// and no OnDowngrade callback is configured.
	ErrDowngrade = errors.ConstError("cannot downgrade database")

	// ErrReadOnlyUpgrade is returned when a read-only open finds a version
	// that needs create, upgrade, or downgrade.
	ErrReadOnlyUpgrade = errors.ConstError("cannot change version of read-only database")
)
