package site

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ashureev/folio/internal/domain"
	"github.com/go-chi/chi/v5"
)

// PortfolioSource loads the current portfolio.
type PortfolioSource interface {
	GetPortfolio(ctx context.Context) (*domain.Portfolio, error)
}

// Handler serves the public page.
type Handler struct {
	src PortfolioSource
	rd  *Renderer
}

// NewHandler creates a public page handler.
func NewHandler(src PortfolioSource, rd *Renderer) *Handler {
	return &Handler{src: src, rd: rd}
}

// RegisterRoutes registers page routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Home)
}

// Home renders the portfolio page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	p, err := h.src.GetPortfolio(r.Context())
	if err != nil {
		slog.Error("Failed to load portfolio", "error", err)
		http.Error(w, "portfolio unavailable", http.StatusInternalServerError)
		return
	}
	flash := FlashMessage(r.URL.Query().Get("status"))
	h.rd.Render(w, http.StatusOK, "index.html", h.rd.Page(r.Context(), p, flash))
}
