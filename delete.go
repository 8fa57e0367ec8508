// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteseed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// sidecarSuffixes are the files SQLite keeps next to a database in WAL mode.
var sidecarSuffixes = []string{"-wal", "-shm"}

// Delete removes a database file and its WAL sidecar files.
// Returns nil if the file does not exist.
//
// A Helper never forgets that it provisioned a file; construct a new Helper
// after deleting to provision again.
func Delete(ctx context.Context, path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s: database path must be absolute", path)
	}
	if isDirectory(path) {
		return fmt.Errorf("%s: path is a directory", path)
	}

	if !fileExists(path) {
		return nil
	}

	if err := removeDatabaseFiles(path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}

	if fileExists(path) {
		return fmt.Errorf("%s: still exists after delete", path)
	}

	return nil
}

// removeDatabaseFiles removes path and its sidecars, returning the first error.
func removeDatabaseFiles(path string) error {
	if err := removeRegular(path); err != nil {
		return err
	}
	return removeSidecars(path)
}

// removeSidecars removes the -wal and -shm files that belong to path.
func removeSidecars(path string) error {
	var firstErr error
	for _, suffix := range sidecarSuffixes {
		if err := removeRegular(path + suffix); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// removeRegular removes name if it is a regular file. Missing files are ignored.
func removeRegular(name string) error {
	if !fileExists(name) {
		return nil
	}
	if !isRegularFile(name) {
		return fmt.Errorf("%s: not a regular file", name)
	}
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// File system helpers

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() || info.IsDir()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// sameFile reports whether a and b name the same file. Paths that do not
// exist yet are compared as cleaned absolute paths.
func sameFile(a, b string) bool {
	ai, aerr := os.Stat(a)
	bi, berr := os.Stat(b)
	if aerr == nil && berr == nil {
		return os.SameFile(ai, bi)
	}
	absA, aerr := filepath.Abs(a)
	absB, berr := filepath.Abs(b)
	return aerr == nil && berr == nil && absA == absB
}
