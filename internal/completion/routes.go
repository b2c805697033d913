package completion

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes serves /completions.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/today", h.Today)
	r.Post("/today/{taskKey}/toggle", h.Toggle)

	return r
}

// TaskRoutes serves /tasks.
func TaskRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/today", h.TodayTasks)

	return r
}
