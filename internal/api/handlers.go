package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quicknote/quicknote/internal/apperr"
	"github.com/quicknote/quicknote/internal/noteservice"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc      *noteservice.Service
	commands Commands
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc, commands: NewCommands(svc)}
}

// Invoke handles POST /invoke/{command}. The body is a JSON object of named
// arguments and may be empty for commands that take none.
func (h *Handler) Invoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "command")
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	args := Args{}
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	result, err := h.commands.Dispatch(r.Context(), name, args)
	if err != nil {
		writeError(w, name, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListCommands handles GET /invoke.
func (h *Handler) ListCommands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"commands": h.commands.Names()})
}

// GetSettings handles GET /settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	path, err := h.svc.GetSettings(r.Context())
	if err != nil {
		writeError(w, "get_settings", err)
		return
	}
	writeJSON(w, http.StatusOK, SettingsResponse{FilePath: path})
}

// SaveSettings handles PUT /settings. The path is cleaned like typed input.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req SaveSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if _, err := h.svc.SaveEnteredPath(r.Context(), req.FilePath); err != nil {
		writeError(w, "save_settings", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListNotes handles GET /notes?path=&q=. Without path the saved note file is used.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path, err := h.resolvePath(r, q.Get("path"))
	if err != nil {
		writeError(w, "read_notes", err)
		return
	}
	notes, err := h.svc.SearchNotes(r.Context(), path, q.Get("q"))
	if err != nil {
		writeError(w, "read_notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NotesResponse{Notes: notes, Total: len(notes)})
}

// OpenFile handles POST /open. An empty body or path opens the saved note file.
func (h *Handler) OpenFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req OpenFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	path, err := h.resolvePath(r, req.Path)
	if err != nil {
		writeError(w, "open_file", err)
		return
	}
	if err := h.svc.OpenFile(r.Context(), path); err != nil {
		writeError(w, "open_file", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resolvePath(r *http.Request, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	saved, err := h.svc.GetSettings(r.Context())
	if err != nil {
		return "", err
	}
	if saved == nil || *saved == "" {
		return "", fmt.Errorf("%w: no note file configured", apperr.ErrInvalidArgument)
	}
	return *saved, nil
}
