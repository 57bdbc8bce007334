package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))

			r.Post("/sessions", h.CreateSession)
			r.Get("/sessions", h.ListSessions)

			r.Route("/sessions/{sessionID}", func(r chi.Router) {
				r.Use(h.SessionCtx)

				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)

				r.Get("/readiness", h.GetReadiness)
				r.Put("/readiness/notes", h.SetNotes)
				r.Post("/readiness/reset", h.ResetReadiness)
				r.Get("/readiness/export", h.ExportReadiness)
				r.Post("/readiness/import", h.ImportReadiness)
				r.Put("/readiness/{dimension}", h.SetDimension)

				r.Post("/usecases", h.AddUseCase)
				r.Delete("/usecases", h.RemoveLastUseCase)
				r.Get("/usecases/export", h.ExportUseCases)
				r.Post("/usecases/import", h.ImportUseCases)
				r.Patch("/usecases/{useCaseID}", h.UpdateUseCase)

				r.Put("/placements/{useCaseID}", h.SetPlacement)
				r.Delete("/placements/{useCaseID}", h.RemovePlacement)
				r.Put("/drag", h.StartDrag)
				r.Delete("/drag", h.EndDrag)

				r.Get("/rankings", h.Rankings)
				r.Get("/horizons", h.Horizons)
				r.Get("/chart.svg", h.Chart)

				r.Get("/export", h.Export)
				r.Post("/import", h.Import)
			})
		})
	})

	return r
}
