package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/quicknote/quicknote/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError reports err to the caller as a descriptive string, choosing the
// status from its sentinel.
func writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnknownCommand),
		errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, os.ErrNotExist):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		slog.Error("command failed", slog.String("command", op), slog.String("error", err.Error()))
	}
	writeJSON(w, status, errorBody(err.Error()))
}
