// Package testutil provides shared test helpers for settings homes and note files.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/quicknote/quicknote/internal/settings"
	"github.com/quicknote/quicknote/internal/storage"
)

// SampleNotes is a two-note file in the on-disk format.
const SampleNotes = "[2024-01-01]\nHello\n------------------\n[2024-01-02]\nWorld"

// TestSettings creates a settings store inside a temporary home directory.
func TestSettings(t *testing.T) *settings.Store {
	t.Helper()
	home := t.TempDir()
	path, err := settings.ResolvePath(func(key string) (string, bool) {
		if key == "HOME" {
			return home, true
		}
		return "", false
	})
	if err != nil {
		t.Fatal(err)
	}
	return settings.NewStore(path, storage.NewFS())
}

// TestNoteFile writes content to a temporary note file and returns its path.
func TestNoteFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
