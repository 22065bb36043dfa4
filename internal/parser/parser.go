// Package parser splits a QuickNote text file into dated notes.
package parser

import (
	"slices"
	"strings"

	"github.com/quicknote/quicknote/internal/models"
)

// Delimiter separates notes in the file. It is matched literally, not as a line.
const Delimiter = "------------------"

var bracketStripper = strings.NewReplacer("[", "", "]", "")

// Parse splits content on Delimiter and returns one note per chunk that has
// both a date line and a body, last chunk first. It never fails: chunks that
// are blank or have no newline are dropped.
func Parse(content string) []models.Note {
	notes := make([]models.Note, 0)
	for _, chunk := range strings.Split(content, Delimiter) {
		note, ok := parseChunk(chunk)
		if !ok {
			continue
		}
		notes = append(notes, note)
	}
	slices.Reverse(notes)
	return notes
}

// parseChunk extracts the date header and body of a single chunk.
func parseChunk(chunk string) (models.Note, bool) {
	trimmed := strings.TrimSpace(chunk)
	if trimmed == "" {
		return models.Note{}, false
	}
	dateLine, body, found := strings.Cut(trimmed, "\n")
	if !found {
		return models.Note{}, false
	}
	return models.Note{
		Date:    bracketStripper.Replace(strings.TrimSpace(dateLine)),
		Content: strings.TrimSpace(body),
	}, true
}

// Filter returns the notes whose content or date contains query,
// ignoring case. A blank query matches everything.
func Filter(notes []models.Note, query string) []models.Note {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return notes
	}
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Content), q) || strings.Contains(strings.ToLower(n.Date), q) {
			out = append(out, n)
		}
	}
	return out
}
