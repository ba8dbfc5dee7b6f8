package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"platecheck/internal/usecase/quality"
)

// Settings carries the configuration the web surface needs.
type Settings struct {
	AdminPassword string
	Branches      []string
}

// NewRouter wires the dashboard JSON API. Everything behind the role gate is
// unreachable until the session selects a branch or headquarters role.
func NewRouter(svc *quality.Service, sessions *SessionStore, settings Settings) http.Handler {
	h := &handler{
		svc:      svc,
		settings: settings,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(sessions.withSession)

	r.Get("/health", h.health)

	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.sessionState)
		r.Post("/role", h.selectRole)
		r.Delete("/", h.logout)
		r.Post("/admin", h.adminLogin)
		r.Delete("/admin", h.adminLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.requireRole)

		r.Post("/checks", h.submitCheck)
		r.Get("/checks", h.listChecks)
		r.Get("/report", h.report)
		r.Post("/insight", h.insight)
		r.Get("/insight/ping", h.insightPing)
	})

	return r
}
