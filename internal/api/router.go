// Package api exposes the assistant over HTTP.
package api

import (
	"yara_assistant/internal/nodes"
	"yara_assistant/internal/services"
	"yara_assistant/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Version is reported by /health and /
const Version = "1.0.0"

// Deps are the components the HTTP layer serves
type Deps struct {
	Orchestrator   *nodes.Orchestrator
	Sessions       storage.SessionManager
	Data           services.BusinessData
	ModelLoaded    bool
	EmbedderLoaded bool
	Version        string
}

// NewRouter creates the chi router with all routes and middleware
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(CORS)
	r.Use(RequestLogger)
	r.Use(Recovery)

	h := NewHandler(deps)

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/status", h.Status)
	r.Get("/database/info", h.DatabaseInfo)

	r.Post("/chat", h.Chat)
	r.Delete("/chat/history", h.ClearHistory)

	return r
}
