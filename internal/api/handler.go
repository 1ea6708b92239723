// Package api provides the JSON and asset endpoints of the portfolio server.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ashureev/folio/internal/site"
	"github.com/ashureev/folio/internal/store"
)

// Handler provides common handler utilities.
type Handler struct {
	repo     store.Repository
	resolver *site.Resolver
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, resolver *site.Resolver) *Handler {
	return &Handler{
		repo:     repo,
		resolver: resolver,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Unauthorized is the denial handler for admin-only JSON routes.
func Unauthorized(w http.ResponseWriter, _ *http.Request) {
	Error(w, http.StatusUnauthorized, "unauthorized")
}
