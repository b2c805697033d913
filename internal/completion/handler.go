package completion

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/visionboard-lambda/internal/auth"
	"github.com/saulo-duarte/visionboard-lambda/internal/config"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	completions, err := h.service.LoadToday(r.Context(), auth.OwnerFromContext(r.Context()))
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, completions)
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	taskKey := chi.URLParam(r, "taskKey")
	if taskKey == "" {
		http.Error(w, "task key required", http.StatusBadRequest)
		return
	}

	completions, err := h.service.Toggle(r.Context(), auth.OwnerFromContext(r.Context()), taskKey)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, completions)
}

func (h *Handler) TodayTasks(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	today, err := h.service.TodayTasks(r.Context(), auth.OwnerFromContext(r.Context()))
	if err != nil {
		log.WithError(err).Error("Failed to build today's tasks")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, today)
}
