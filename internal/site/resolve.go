// Package site renders the public portfolio page and the admin editor.
package site

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/ashureev/folio/internal/domain"
)

// ImageStore reports whether an uploaded image exists.
type ImageStore interface {
	HasImage(ctx context.Context, id string) (bool, error)
}

// ImagePath returns the URL an uploaded image is served from.
func ImagePath(id string) string {
	return "/images/" + url.PathEscape(id)
}

// Resolver turns stored image references into browser URLs.
type Resolver struct {
	images      ImageStore
	placeholder string
}

// NewResolver creates a resolver backed by images.
func NewResolver(images ImageStore, placeholder string) *Resolver {
	return &Resolver{images: images, placeholder: placeholder}
}

// ImageURL resolves a single reference.
func (r *Resolver) ImageURL(ctx context.Context, ref string) string {
	exists := func(id string) bool {
		ok, err := r.images.HasImage(ctx, id)
		if err != nil {
			slog.Warn("Image lookup failed", "image_id", id, "error", err)
			return false
		}
		return ok
	}
	return domain.ResolveImageURL(ref, exists, ImagePath, r.placeholder)
}

// Portfolio returns a copy of p with every image reference resolved.
func (r *Resolver) Portfolio(ctx context.Context, p *domain.Portfolio) *domain.Portfolio {
	out := p.Clone()
	out.PersonalInfo.ProfileImageURL = r.ImageURL(ctx, out.PersonalInfo.ProfileImageURL)
	for i := range out.Projects {
		out.Projects[i].ImageURL = r.ImageURL(ctx, out.Projects[i].ImageURL)
	}
	return out
}
