package upload

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	uploader Uploader
}

func NewHandler(uploader Uploader) *Handler {
	return &Handler{uploader: uploader}
}

type uploadResult struct {
	URL string `json:"url"`
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	if !h.uploader.Configured() {
		http.Error(w, ErrNotConfigured.Error(), http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		log.WithError(err).Warn("Invalid upload form")
		http.Error(w, "multipart field 'file' is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, ErrUploadFailed) {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		log.WithError(err).Error("Upload failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	config.JSON(w, http.StatusCreated, uploadResult{URL: url})
}
