package vision

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/feed", h.Feed)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/start", h.Start)
	r.Post("/{id}/milestones/generate", h.GenerateMilestones)
	r.Post("/{id}/milestones/{milestoneID}/toggle", h.ToggleMilestone)
	r.Get("/{id}/export", h.Export)

	return r
}
