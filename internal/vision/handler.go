package vision

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/saulo-duarte/visionboard-lambda/internal/auth"
	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/export"
	util "github.com/saulo-duarte/visionboard-lambda/internal/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// owned loads the vision named in the URL and hides other owners' visions.
func (h *Handler) owned(w http.ResponseWriter, r *http.Request) (*Vision, bool) {
	log := config.WithContext(r.Context())

	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	v, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "vision not found", http.StatusNotFound)
			return nil, false
		}
		log.WithError(err).Error("Failed to load vision")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil, false
	}
	if v.UserID != auth.OwnerFromContext(r.Context()) {
		http.Error(w, "vision not found", http.StatusNotFound)
		return nil, false
	}
	return v, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUnknownMilestone):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNoSchedule), errors.Is(err, ErrEmptyText):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		config.WithContext(r.Context()).WithError(err).Errorf("Failed to %s", action)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateVisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := util.ValidateStruct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := h.service.Create(r.Context(), auth.OwnerFromContext(r.Context()), dto)
	if err != nil {
		h.writeError(w, r, err, "create vision")
		return
	}

	config.JSON(w, http.StatusCreated, v)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	visions, err := h.service.List(r.Context(), auth.OwnerFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err, "list visions")
		return
	}

	config.JSON(w, http.StatusOK, visions)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	v, ok := h.owned(w, r)
	if !ok {
		return
	}
	config.JSON(w, http.StatusOK, v)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	v, ok := h.owned(w, r)
	if !ok {
		return
	}

	var dto UpdateVisionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Warn("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := util.ValidateStruct(dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), v.ID, dto)
	if err != nil {
		h.writeError(w, r, err, "update vision")
		return
	}

	config.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	v, ok := h.owned(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), v.ID); err != nil {
		h.writeError(w, r, err, "delete vision")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	v, ok := h.owned(w, r)
	if !ok {
		return
	}

	started, err := h.service.StartPlan(r.Context(), v.ID)
	if err != nil {
		h.writeError(w, r, err, "start plan")
		return
	}

	config.JSON(w, http.StatusOK, started)
}

func (h *Handler) GenerateMilestones(w http.ResponseWriter, r *http.Request) {
	v, ok := h.owned(w, r)
	if !ok {
		return
	}

	updated, err := h.service.GenerateMilestones(r.Context(), v.ID)
	if err != nil {
		h.writeError(w, r, err, "generate milestones")
		return
	}

	config.JSON(w, http.StatusOK, updated)
}

func (h *Handler) ToggleMilestone(w http.ResponseWriter, r *http.Request) {
	v, ok := h.owned(w, r)
	if !ok {
		return
	}

	updated, err := h.service.ToggleMilestone(r.Context(), v.ID, chi.URLParam(r, "milestoneID"))
	if err != nil {
		h.writeError(w, r, err, "toggle milestone")
		return
	}

	config.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	v, ok := h.owned(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(v.Text, format)))
	if err := export.Render(w, format, PlanData(v)); err != nil {
		log.WithError(err).Error("Failed to render plan export")
	}
}

// PlanData adapts a stored vision for export.
func PlanData(v *Vision) export.PlanData {
	return export.PlanData{
		Title:       v.Text,
		Motivations: v.Motivations,
		Items:       v.Schedule,
		CreatedAt:   v.CreatedAt,
	}
}
