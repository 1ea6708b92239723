// Package sweeper runs the periodic cleanup of in-memory sessions, rate
// limiter state and orphaned image uploads.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/folio/internal/domain"
)

const (
	defaultInterval    = 5 * time.Minute
	defaultImageGrace  = time.Hour
	defaultLimiterIdle = 10 * time.Minute
)

// Config controls the sweep cadence.
type Config struct {
	Interval time.Duration
	// ImageGrace protects fresh uploads that no draft references yet.
	ImageGrace  time.Duration
	LimiterIdle time.Duration
}

// ImageStore is the storage the sweeper needs.
type ImageStore interface {
	GetPortfolio(ctx context.Context) (*domain.Portfolio, error)
	ListImagesBefore(ctx context.Context, t time.Time) ([]string, error)
	DeleteImage(ctx context.Context, id string) error
}

// SessionStore drops expired admin sessions and reports draft image use.
type SessionStore interface {
	Sweep() int
	DraftImageIDs() map[string]struct{}
}

// LimiterStore forgets idle rate limit keys.
type LimiterStore interface {
	Sweep(idle time.Duration) int
}

// Stats reports what one sweep removed.
type Stats struct {
	Sessions int
	Limiters int
	Images   int
}

// Sweeper periodically cleans up expired state.
type Sweeper struct {
	cfg      Config
	images   ImageStore
	sessions SessionStore
	limiter  LimiterStore
	now      func() time.Time
}

// New creates a sweeper. Any of sessions or limiter may be nil.
func New(cfg Config, images ImageStore, sessions SessionStore, limiter LimiterStore) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.ImageGrace <= 0 {
		cfg.ImageGrace = defaultImageGrace
	}
	if cfg.LimiterIdle <= 0 {
		cfg.LimiterIdle = defaultLimiterIdle
	}
	return &Sweeper{cfg: cfg, images: images, sessions: sessions, limiter: limiter, now: time.Now}
}

// Run sweeps every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	slog.Info("Sweeper started", "interval", s.cfg.Interval, "image_grace", s.cfg.ImageGrace)

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			slog.Info("Sweeper shutting down", "reason", ctx.Err())
			return nil
		}
	}
}

// SweepOnce runs a single cleanup pass.
func (s *Sweeper) SweepOnce(ctx context.Context) Stats {
	var st Stats
	if s.sessions != nil {
		st.Sessions = s.sessions.Sweep()
	}
	if s.limiter != nil {
		st.Limiters = s.limiter.Sweep(s.cfg.LimiterIdle)
	}
	st.Images = s.sweepImages(ctx)

	if st.Sessions > 0 || st.Limiters > 0 || st.Images > 0 {
		slog.Info("Sweep completed",
			"sessions", st.Sessions,
			"limiters", st.Limiters,
			"images", st.Images)
	}
	return st
}

// sweepImages deletes uploads older than the grace period that neither the
// stored portfolio nor any open draft references.
func (s *Sweeper) sweepImages(ctx context.Context) int {
	candidates, err := s.images.ListImagesBefore(ctx, s.now().Add(-s.cfg.ImageGrace))
	if err != nil {
		slog.Error("Sweeper failed to list images", "error", err)
		return 0
	}
	if len(candidates) == 0 {
		return 0
	}

	p, err := s.images.GetPortfolio(ctx)
	if err != nil {
		slog.Error("Sweeper failed to load portfolio, skipping image cleanup", "error", err)
		return 0
	}
	keep := p.ReferencedImageIDs()
	if s.sessions != nil {
		for id := range s.sessions.DraftImageIDs() {
			keep[id] = struct{}{}
		}
	}

	deleted := 0
	for _, id := range candidates {
		if _, ok := keep[id]; ok {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		if err := s.images.DeleteImage(ctx, id); err != nil {
			slog.Warn("Sweeper failed to delete orphan image", "image_id", id, "error", err)
			continue
		}
		deleted++
	}
	return deleted
}
