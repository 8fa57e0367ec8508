// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteseed

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ResourceReader opens named byte streams from an application's bundled,
// read-only resources. Seeds are read through it.
type ResourceReader interface {
	OpenResource(name string) (io.ReadCloser, error)
}

// FSResources adapts a file system (typically an embed.FS or os.DirFS)
// to a ResourceReader.
func FSResources(fsys fs.FS) ResourceReader {
	return fsResources{fsys: fsys}
}

type fsResources struct {
	fsys fs.FS
}

func (r fsResources) OpenResource(name string) (io.ReadCloser, error) {
	return r.fsys.Open(name)
}

// ExternalStorage is the externally accessible area that exports are
// written to.
type ExternalStorage interface {
	// Dir returns the directory that export file names are resolved in.
	Dir() (string, error)
	// Create opens path for writing, truncating any existing file.
	Create(path string) (io.WriteCloser, error)
}

// DownloadsStorage writes exports to the user's downloads directory:
// $XDG_DOWNLOAD_DIR when set, otherwise ~/Downloads.
type DownloadsStorage struct{}

func (DownloadsStorage) Dir() (string, error) {
	if dir := os.Getenv("XDG_DOWNLOAD_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("downloads: %w", err)
	}
	return filepath.Join(home, "Downloads"), nil
}

func (DownloadsStorage) Create(path string) (io.WriteCloser, error) {
	return createFile(path)
}

// DirStorage writes exports to a fixed directory.
type DirStorage string

func (d DirStorage) Dir() (string, error) {
	if d == "" {
		return "", fmt.Errorf("export directory not set")
	}
	return string(d), nil
}

func (d DirStorage) Create(path string) (io.WriteCloser, error) {
	return createFile(path)
}

func createFile(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// PathResolver maps a logical database name to the file that backs it in
// the application's private storage.
type PathResolver interface {
	DatabasePath(name string) (string, error)
}

// DirResolver keeps databases in one directory, creating it on demand.
type DirResolver string

func (d DirResolver) DatabasePath(name string) (string, error) {
	dir := string(d)
	if !filepath.IsAbs(dir) {
		return "", fmt.Errorf("%s: database directory must be absolute", dir)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("%s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if isDirectory(path) {
		return "", fmt.Errorf("%s: path is a directory", path)
	}
	return path, nil
}
