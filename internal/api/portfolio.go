package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/folio/internal/auth"
	"github.com/ashureev/folio/internal/domain"
	"github.com/go-chi/chi/v5"
)

// maxPortfolioBodySize bounds a wholesale portfolio upload.
const maxPortfolioBodySize = 1 << 20

// PortfolioHandler serves the portfolio as JSON.
type PortfolioHandler struct {
	*Handler
	sessions *auth.Manager
}

// NewPortfolioHandler creates a portfolio handler.
func NewPortfolioHandler(base *Handler, sessions *auth.Manager) *PortfolioHandler {
	return &PortfolioHandler{Handler: base, sessions: sessions}
}

// RegisterRoutes registers portfolio routes.
func (h *PortfolioHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/portfolio", h.GetPublic)
	r.Group(func(r chi.Router) {
		r.Use(auth.Require(h.sessions, Unauthorized))
		r.Get("/api/admin/portfolio", h.GetAdmin)
		r.Put("/api/admin/portfolio", h.PutAdmin)
	})
}

// GetPublic returns the portfolio with image references resolved and the
// contact relay credentials removed.
func (h *PortfolioHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.GetPortfolio(r.Context())
	if err != nil {
		slog.Error("Failed to load portfolio", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load portfolio")
		return
	}
	JSON(w, http.StatusOK, h.resolver.Portfolio(r.Context(), p.Public()))
}

// GetAdmin returns the stored portfolio with raw image references.
func (h *PortfolioHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.GetPortfolio(r.Context())
	if err != nil {
		slog.Error("Failed to load portfolio", "error", err)
		Error(w, http.StatusInternalServerError, "failed to load portfolio")
		return
	}
	JSON(w, http.StatusOK, p)
}

// PutAdmin replaces the stored portfolio wholesale. The caller's editor
// draft is replaced too so a later Commit does not undo the upload.
func (h *PortfolioHandler) PutAdmin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPortfolioBodySize)

	var p domain.Portfolio
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		Error(w, http.StatusBadRequest, "invalid portfolio: "+err.Error())
		return
	}
	p.Normalize()

	if err := h.repo.SavePortfolio(r.Context(), &p); err != nil {
		slog.Error("Failed to save portfolio", "error", err)
		Error(w, http.StatusInternalServerError, "failed to save portfolio")
		return
	}

	if s := auth.SessionFromContext(r.Context()); s != nil {
		s.ReplaceDraft(p.Clone())
	}

	slog.Info("Portfolio replaced via API", "projects", len(p.Projects))
	JSON(w, http.StatusOK, &p)
}
