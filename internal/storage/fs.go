package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// FS implements Provider backed by the local file system.
type FS struct {
	perm fs.FileMode
}

// NewFS creates a new FS provider. Newly created files get mode 0o644.
func NewFS() *FS {
	return &FS{perm: 0o644}
}

// Read returns the raw bytes of a file. The wrapped error keeps
// os.ErrNotExist so callers can classify it.
func (f *FS) Read(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("storage: read: empty path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically replaces path: temp file in the same dir, fsync, rename.
func (f *FS) Write(path string, content []byte) error {
	if path == "" {
		return fmt.Errorf("storage: write: empty path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, os.ErrNotExist)

	if err := atomic.WriteFile(path, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	// atomic.WriteFile keeps the mode of an existing file but leaves new ones at 0600.
	if isNew {
		if err := os.Chmod(path, f.perm); err != nil {
			return fmt.Errorf("storage: chmod %s: %w", path, err)
		}
	}
	return nil
}

// Exists reports whether a file or directory exists at path.
func (f *FS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("storage: stat %s: %w", path, err)
}
