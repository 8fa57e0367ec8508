// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqliteseed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// defaultBufferSize is the chunk size used by streamCopy.
const defaultBufferSize = 512

// streamCopy copies src to dst through buf until src reports io.EOF.
//
// A read that returns no bytes and no error is skipped and the loop keeps
// reading. Bytes returned together with io.EOF are written before stopping.
func streamCopy(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	var written int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			m, werr := dst.Write(buf[:n])
			written += int64(m)
			if werr != nil {
				return written, werr
			}
			if m != n {
				return written, io.ErrShortWrite
			}
		}
		if errors.Is(err, io.EOF) {
			return written, nil
		} else if err != nil {
			return written, err
		}
	}
}

// installFile replaces path with the contents of src.
//
// The bytes go to a temporary file in the same directory which is synced,
// closed, and renamed over path only after the copy succeeded. Stale WAL
// sidecars are removed first so they cannot be replayed into the new file.
// On any failure path is left as it was and the temporary file is removed.
func installFile(path string, src io.Reader, bufferSize int) (n int64, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".seed-*")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}
	tmpName := tmp.Name()

	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = tmp.Close()
		}
		_ = os.Remove(tmpName)
	}()

	n, err = streamCopy(tmp, src, make([]byte, bufferSize))
	if err != nil {
		return n, fmt.Errorf("%w: %s: %w", ErrCopyFailed, tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return n, fmt.Errorf("%w: %s: sync: %w", ErrCopyFailed, tmpName, err)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return n, fmt.Errorf("%w: %s: close: %w", ErrCopyFailed, tmpName, err)
	}
	if err = removeSidecars(path); err != nil {
		return n, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return n, fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}
	return n, nil
}

// copyToExternal streams the file at path into a new file created by ext.
func copyToExternal(ext ExternalStorage, dest, path string, bufferSize int) (int64, error) {
	src, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}
	defer src.Close()

	dst, err := ext.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrCopyFailed, dest, err)
	}

	n, err := streamCopy(dst, src, make([]byte, bufferSize))
	if err != nil {
		_ = dst.Close()
		return n, fmt.Errorf("%w: %s: %w", ErrCopyFailed, dest, err)
	}
	if err := dst.Close(); err != nil {
		return n, fmt.Errorf("%w: %s: close: %w", ErrCopyFailed, dest, err)
	}
	return n, nil
}
