package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ImageHandler streams uploaded images.
type ImageHandler struct {
	*Handler
}

// NewImageHandler creates an image handler.
func NewImageHandler(base *Handler) *ImageHandler {
	return &ImageHandler{Handler: base}
}

// RegisterRoutes registers image routes.
func (h *ImageHandler) RegisterRoutes(r chi.Router) {
	r.Get("/images/{id}", h.Serve)
}

// Serve writes the image bytes with their stored content type.
func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	img, err := h.repo.GetImage(r.Context(), id)
	if err != nil {
		slog.Error("Failed to load image", "image_id", id, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load image")
		return
	}
	if img == nil {
		Error(w, http.StatusNotFound, "image not found")
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(img.Size()))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		slog.Debug("Failed to write image", "image_id", id, "error", err)
	}
}
