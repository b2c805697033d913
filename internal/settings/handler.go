package settings

import (
	"encoding/json"
	"net/http"

	"github.com/saulo-duarte/visionboard-lambda/internal/auth"
	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	util "github.com/saulo-duarte/visionboard-lambda/internal/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	st, err := h.service.Get(r.Context(), auth.OwnerFromContext(r.Context()))
	if err != nil {
		log.WithError(err).Error("Failed to load settings")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, st)
}

func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpdateThemeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := util.ValidateStruct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.service.SetThemeMode(r.Context(), auth.OwnerFromContext(r.Context()), dto.ThemeMode)
	if err != nil {
		log.WithError(err).Error("Failed to update theme")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, st)
}

func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	st, err := h.service.ToggleDarkMode(r.Context(), auth.OwnerFromContext(r.Context()))
	if err != nil {
		log.WithError(err).Error("Failed to toggle theme")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, st)
}

func (h *Handler) SetNotifications(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpdateNotificationsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := util.ValidateStruct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	st, err := h.service.SetNotificationsEnabled(r.Context(), auth.OwnerFromContext(r.Context()), *dto.Enabled)
	if err != nil {
		log.WithError(err).Error("Failed to update notifications")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusOK, st)
}
