package interview

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Discard)
	r.Post("/{id}/start", h.Start)
	r.Post("/{id}/answers", h.Answer)
	r.Post("/{id}/redo", h.Redo)
	r.Put("/{id}/image", h.AttachImage)
	r.Post("/{id}/confirm", h.Confirm)
	r.Get("/{id}/export", h.Export)

	return r
}
