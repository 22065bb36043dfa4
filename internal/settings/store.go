// Package settings persists the single-field QuickNote configuration record
// under the user's home directory.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/quicknote/quicknote/internal/apperr"
	"github.com/quicknote/quicknote/internal/models"
	"github.com/quicknote/quicknote/internal/storage"
)

// FileName is the settings file created in the home directory.
const FileName = ".quicknote_config.json"

// errMissingFilePath is returned when the record decodes but lacks file_path.
var errMissingFilePath = errors.New("missing field `file_path`")

// LookupEnv matches os.LookupEnv so tests can inject an environment.
type LookupEnv func(key string) (string, bool)

// ResolvePath returns <home>/.quicknote_config.json, where home is taken from
// USERPROFILE and then HOME. It returns apperr.ErrNoHome when neither is set.
func ResolvePath(lookup LookupEnv) (string, error) {
	for _, key := range []string{"USERPROFILE", "HOME"} {
		if home, ok := lookup(key); ok && home != "" {
			return filepath.Join(home, FileName), nil
		}
	}
	return "", apperr.ErrNoHome
}

// Store loads and saves the configuration record at a fixed path.
type Store struct {
	path  string
	files storage.Provider
}

// NewStore creates a Store for the record at path.
func NewStore(path string, files storage.Provider) *Store {
	return &Store{path: path, files: files}
}

// Path returns the location of the settings file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved note-file path. ok is false, with a nil error, when
// no settings have been saved yet.
func (s *Store) Load() (path string, ok bool, err error) {
	exists, err := s.files.Exists(s.path)
	if err != nil {
		return "", false, fmt.Errorf("settings: %w", err)
	}
	if !exists {
		return "", false, nil
	}

	data, err := s.files.Read(s.path)
	if err != nil {
		return "", false, fmt.Errorf("settings: %w", err)
	}

	rec, err := decode(data)
	if err != nil {
		return "", false, fmt.Errorf("settings: decode %s: %w", s.path, err)
	}
	return rec.FilePath, true, nil
}

// Save replaces the whole settings file with a record holding path.
func (s *Store) Save(path string) error {
	data, err := json.Marshal(models.Settings{FilePath: path})
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := s.files.Write(s.path, data); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

// decode accepts JSON with comments and trailing commas, since the file is
// occasionally edited by hand.
func decode(data []byte) (models.Settings, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return models.Settings{}, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(standardized, &raw); err != nil {
		return models.Settings{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, ok := raw["file_path"]; !ok {
		return models.Settings{}, errMissingFilePath
	}

	var rec models.Settings
	if err := json.Unmarshal(standardized, &rec); err != nil {
		return models.Settings{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return rec, nil
}
