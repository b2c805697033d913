package interview

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/saulo-duarte/visionboard-lambda/internal/auth"
	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/export"
	"github.com/saulo-duarte/visionboard-lambda/internal/reminder"
	util "github.com/saulo-duarte/visionboard-lambda/internal/utils"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrEmptyAnswer), errors.Is(err, ErrEmptyGoal):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrTurnInProgress), errors.Is(err, ErrInvalidStage):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrImageRequired):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		config.WithContext(r.Context()).WithError(err).Error("Interview request failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// authorize checks the caller owns the interview named in the URL.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	view, err := h.engine.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return "", false
	}
	if view.Owner != auth.OwnerFromContext(r.Context()) {
		writeError(w, r, ErrSessionNotFound)
		return "", false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		config.WithContext(r.Context()).WithError(err).Warn("Invalid request body")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	if err := util.ValidateStruct(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateInterviewDTO
	if !decode(w, r, &dto) {
		return
	}

	view, err := h.engine.Create(r.Context(), dto.Goal, dto.ImageURI, auth.OwnerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, view)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}

	view, err := h.engine.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}

	view, err := h.engine.Begin(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var dto AnswerDTO
	if !decode(w, r, &dto) {
		return
	}

	view, err := h.engine.Answer(r.Context(), id, dto.Answer)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) Redo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}

	view, err := h.engine.Redo(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) AttachImage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var dto AttachImageDTO
	if !decode(w, r, &dto) {
		return
	}

	view, err := h.engine.AttachImage(r.Context(), id, dto.ImageURI)
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, view)
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var dto ConfirmDTO
	if r.ContentLength != 0 && r.Body != nil && r.Body != http.NoBody {
		if !decode(w, r, &dto) {
			return
		}
	}
	if dto.Platform == "" {
		dto.Platform = strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
		if err := util.ValidateStruct(&dto); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	confirmation, err := h.engine.Confirm(r.Context(), id, reminder.Platform(dto.Platform))
	if err != nil {
		writeError(w, r, err)
		return
	}

	config.JSON(w, http.StatusCreated, confirmation)
}

func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorize(w, r)
	if !ok {
		return
	}

	if err := h.engine.Discard(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	id, ok := h.authorize(w, r)
	if !ok {
		return
	}

	view, err := h.engine.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if view.Stage != StageProposal || view.Proposal == nil {
		writeError(w, r, fmt.Errorf("%w: export in %s", ErrInvalidStage, view.Stage))
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(view.Goal, format)))
	data := export.PlanData{
		Title:       view.Goal,
		Motivations: view.Proposal.Motivations,
		Items:       view.Proposal.Items,
		CreatedAt:   view.CreatedAt,
	}
	if err := export.Render(w, format, data); err != nil {
		log.WithError(err).Error("Plan export failed")
	}
}
