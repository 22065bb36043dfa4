package api

import "github.com/quicknote/quicknote/internal/models"

// Note is the wire form of a parsed note.
type Note = models.Note

// SettingsResponse is returned by GET /settings. FilePath is null when no
// settings have been saved.
type SettingsResponse struct {
	FilePath *string `json:"file_path"`
}

// SaveSettingsRequest is the body of PUT /settings.
type SaveSettingsRequest struct {
	FilePath string `json:"file_path"`
}

// OpenFileRequest is the body of POST /open.
type OpenFileRequest struct {
	Path string `json:"path"`
}

// NotesResponse wraps GET /notes.
type NotesResponse struct {
	Notes []Note `json:"notes"`
	Total int    `json:"total"`
}
