package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quicknote/quicknote/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Command dispatch, mirroring the desktop front-end's invoke(name, args).
	r.Get("/invoke", h.ListCommands)
	r.Post("/invoke/{command}", h.Invoke)

	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.SaveSettings)
	r.Get("/notes", h.ListNotes)
	r.Post("/open", h.OpenFile)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
