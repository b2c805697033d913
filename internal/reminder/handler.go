package reminder

import (
	"net/http"

	"github.com/saulo-duarte/visionboard-lambda/internal/auth"
	"github.com/saulo-duarte/visionboard-lambda/internal/config"
)

type Handler struct {
	scheduler *Scheduler
}

func NewHandler(s *Scheduler) *Handler {
	return &Handler{scheduler: s}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	reminders, err := h.scheduler.List(r.Context(), auth.OwnerFromContext(r.Context()))
	if err != nil {
		log.WithError(err).Error("Failed to list reminders")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if reminders == nil {
		reminders = []Reminder{}
	}

	config.JSON(w, http.StatusOK, reminders)
}

func (h *Handler) CancelAll(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if err := h.scheduler.CancelAll(r.Context(), auth.OwnerFromContext(r.Context())); err != nil {
		log.WithError(err).Error("Failed to cancel reminders")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
