// Package models defines the domain types for QuickNote.
package models

// Note is one dated entry parsed from the note file.
type Note struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

// Settings is the persisted configuration record locating the user's note file.
type Settings struct {
	FilePath string `json:"file_path"`
}
