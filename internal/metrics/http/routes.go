package http

import "github.com/go-chi/chi/v5"

// MountRoutes registers the KPI endpoints on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/kpis", h.handleReport)
}
