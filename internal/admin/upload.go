package admin

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/folio/internal/auth"
	"github.com/ashureev/folio/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// multipartOverhead covers form boundaries and headers around the file.
const multipartOverhead = 64 << 10

var (
	errTooLarge   = errors.New("image is too large")
	errNotImage   = errors.New("only image files are accepted")
	errEmptyImage = errors.New("no image selected")
)

// readImage reads the "image" file field and checks its size and type.
func (h *Handler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", errTooLarge
		}
		return nil, "", fmt.Errorf("parse upload: %w", err)
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Debug("Failed to remove upload temp files", "error", err)
		}
	}()

	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, "", errEmptyImage
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", errEmptyImage
	}
	if int64(len(data)) > h.cfg.MaxUploadBytes {
		return nil, "", errTooLarge
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", errNotImage
	}
	return data, contentType, nil
}

func uploadStatus(err error) int {
	switch {
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNotImage):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

// storeUpload saves the uploaded image under prefix-<uuid> and returns its
// local reference.
func (h *Handler) storeUpload(w http.ResponseWriter, r *http.Request, prefix, tab string) (string, bool) {
	s := auth.SessionFromContext(r.Context())

	data, contentType, err := h.readImage(w, r)
	if err != nil {
		h.renderEditor(w, r, s, uploadStatus(err), tab, "", err.Error())
		return "", false
	}

	img := &domain.Image{
		ID:          prefix + "-" + uuid.NewString(),
		ContentType: contentType,
		Data:        data,
		CreatedAt:   time.Now(),
	}
	if err := h.repo.PutImage(r.Context(), img); err != nil {
		slog.Error("Failed to store image", "image_id", img.ID, "error", err)
		h.renderEditor(w, r, s, http.StatusInternalServerError, tab, "", "Could not store image.")
		return "", false
	}

	slog.Info("Image uploaded", "image_id", img.ID, "content_type", contentType, "size", img.Size())
	return domain.LocalImageRef(img.ID), true
}

// UploadProfileImage stores a new profile image and points the draft at it.
func (h *Handler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.storeUpload(w, r, "profile", "info")
	if !ok {
		return
	}
	h.edit(w, r, "info", func(p *domain.Portfolio) error {
		p.PersonalInfo.ProfileImageURL = ref
		return nil
	})
}

// UploadProjectImage stores a new project image and points the project at it.
func (h *Handler) UploadProjectImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s := auth.SessionFromContext(r.Context()); !s.Draft().HasProject(id) {
		h.renderEditor(w, r, s, http.StatusNotFound, "projects", "", domain.ErrProjectNotFound.Error())
		return
	}

	ref, ok := h.storeUpload(w, r, "project", "projects")
	if !ok {
		return
	}
	h.edit(w, r, "projects", func(p *domain.Portfolio) error {
		return p.UpdateProject(id, func(proj *domain.Project) {
			proj.ImageURL = ref
		})
	})
}
