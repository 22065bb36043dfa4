// Package noteservice implements the QuickNote operations on top of the
// settings store, the file system, the parser and the OS opener.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/quicknote/quicknote/internal/apperr"
	"github.com/quicknote/quicknote/internal/models"
	"github.com/quicknote/quicknote/internal/opener"
	"github.com/quicknote/quicknote/internal/parser"
	"github.com/quicknote/quicknote/internal/settings"
	"github.com/quicknote/quicknote/internal/storage"
)

// SettingsHook is called with the new note-file path after a successful save.
type SettingsHook func(path string)

// Service coordinates settings, storage and opener. It holds no note state:
// every read goes to disk.
type Service struct {
	settings *settings.Store
	store    storage.Provider
	opener   opener.Opener
	logger   *slog.Logger
	hooks    []SettingsHook
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithSettingsHook registers fn to run after every successful SaveSettings.
func WithSettingsHook(fn SettingsHook) Option {
	return func(s *Service) {
		s.hooks = append(s.hooks, fn)
	}
}

// NewService creates a new note service.
func NewService(cfg *settings.Store, store storage.Provider, op opener.Opener, opts ...Option) *Service {
	s := &Service{
		settings: cfg,
		store:    store,
		opener:   op,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnSettingsSaved registers fn after construction, for components built
// after the service.
func (s *Service) OnSettingsSaved(fn SettingsHook) {
	s.hooks = append(s.hooks, fn)
}

// GetSettings returns the saved note-file path, or nil when none is saved.
func (s *Service) GetSettings(_ context.Context) (*string, error) {
	path, ok, err := s.settings.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &path, nil
}

// SaveSettings persists path as the note file exactly as given.
func (s *Service) SaveSettings(_ context.Context, path string) error {
	if err := s.settings.Save(path); err != nil {
		return err
	}
	s.logger.Info("settings saved", slog.String("file_path", path))
	for _, fn := range s.hooks {
		fn(path)
	}
	return nil
}

// SaveEnteredPath saves a typed or pasted path. Surrounding quotes and
// whitespace, as left by copying a path from a file manager, are removed and
// the result must not be empty. It returns the path that was saved.
func (s *Service) SaveEnteredPath(ctx context.Context, raw string) (string, error) {
	cleaned := CleanPath(raw)
	if err := validation.Validate(cleaned, validation.Required); err != nil {
		return "", fmt.Errorf("%w: path %v", apperr.ErrInvalidArgument, err)
	}
	if err := s.SaveSettings(ctx, cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}

var errInvalidUTF8 = errors.New("stream did not contain valid UTF-8")

// ReadNotes reads and parses the note file at filePath, newest note first.
// The file must be valid UTF-8.
func (s *Service) ReadNotes(_ context.Context, filePath string) ([]models.Note, error) {
	s.logger.Info("reading notes", slog.String("path", filePath))
	data, err := s.store.Read(filePath)
	if err != nil {
		// Keep only the OS cause; the path is named below.
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			err = pathErr.Err
		}
		return nil, fmt.Errorf("error reading file at '%s': %w", filePath, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("error reading file at '%s': %w", filePath, errInvalidUTF8)
	}
	return parser.Parse(string(data)), nil
}

// SearchNotes reads the note file and keeps notes whose date or content
// contains query, ignoring case.
func (s *Service) SearchNotes(ctx context.Context, filePath, query string) ([]models.Note, error) {
	notes, err := s.ReadNotes(ctx, filePath)
	if err != nil {
		return nil, err
	}
	return parser.Filter(notes, query), nil
}

// OpenFile opens path with the OS default application.
func (s *Service) OpenFile(_ context.Context, path string) error {
	if err := s.opener.Open(path); err != nil {
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}
	return nil
}

// CleanPath trims whitespace and one pair of surrounding double quotes.
func CleanPath(path string) string {
	p := strings.TrimSpace(path)
	p = strings.TrimPrefix(p, `"`)
	p = strings.TrimSuffix(p, `"`)
	return strings.TrimSpace(p)
}
