package voice

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/interviews/{id}", h.Connect)
	r.Get("/interviews/{id}/status", h.Status)

	return r
}
