// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/folio/internal/domain"
)

// Fixed storage keys.
const (
	PortfolioKey   = "portfolio_data"
	CredentialsKey = "admin_creds"
)

// Repository defines the interface for persisting portfolio content,
// admin credentials and uploaded images.
type Repository interface {
	// GetPortfolio returns the stored aggregate merged over the defaults.
	// Unparseable stored data yields the defaults without an error.
	GetPortfolio(ctx context.Context) (*domain.Portfolio, error)

	// SavePortfolio replaces the stored aggregate wholesale.
	SavePortfolio(ctx context.Context, p *domain.Portfolio) error

	// ResetPortfolio removes the stored aggregate and every image.
	// Credentials are kept.
	ResetPortfolio(ctx context.Context) error

	// GetCredentials returns the stored admin credentials, seeding the
	// defaults on first use.
	GetCredentials(ctx context.Context) (*domain.Credentials, error)

	// SaveCredentials replaces the stored admin credentials.
	SaveCredentials(ctx context.Context, creds *domain.Credentials) error

	// PutImage stores or replaces an image under its id.
	PutImage(ctx context.Context, img *domain.Image) error

	// GetImage retrieves an image. Returns nil, nil when the id is unknown.
	GetImage(ctx context.Context, id string) (*domain.Image, error)

	// HasImage reports whether an image with the id exists.
	HasImage(ctx context.Context, id string) (bool, error)

	// ListImagesBefore returns ids of images created before t.
	ListImagesBefore(ctx context.Context, t time.Time) ([]string, error)

	// DeleteImage removes an image. Deleting an unknown id is not an error.
	DeleteImage(ctx context.Context, id string) error

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
