package sweeper

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/folio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeImages struct {
	mu        sync.Mutex
	portfolio *domain.Portfolio
	loadErr   error
	created   map[string]time.Time
	deleted   []string
}

func (f *fakeImages) GetPortfolio(context.Context) (*domain.Portfolio, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.portfolio.Clone(), nil
}

func (f *fakeImages) ListImagesBefore(_ context.Context, t time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id, at := range f.created {
		if at.Before(t) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeImages) DeleteImage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.created, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSessions struct {
	swept  int
	drafts map[string]struct{}
}

func (f *fakeSessions) Sweep() int                         { return f.swept }
func (f *fakeSessions) DraftImageIDs() map[string]struct{} { return f.drafts }

type fakeLimiter struct {
	mu   sync.Mutex
	idle time.Duration
	runs int
}

func (f *fakeLimiter) Sweep(idle time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idle = idle
	f.runs++
	return 3
}

func (f *fakeLimiter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

func TestSweepOnce_DeletesOnlyOldUnreferencedImages(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	p := domain.DefaultPortfolio()
	p.PersonalInfo.ProfileImageURL = domain.LocalImageRef("profile-live")

	images := &fakeImages{
		portfolio: p,
		created: map[string]time.Time{
			"profile-live":  now.Add(-48 * time.Hour),
			"project-draft": now.Add(-48 * time.Hour),
			"project-old":   now.Add(-48 * time.Hour),
			"project-fresh": now.Add(-time.Minute),
		},
	}
	sessions := &fakeSessions{swept: 2, drafts: map[string]struct{}{"project-draft": {}}}
	limiter := &fakeLimiter{}

	s := New(Config{ImageGrace: time.Hour, LimiterIdle: 7 * time.Minute}, images, sessions, limiter)
	s.now = func() time.Time { return now }

	st := s.SweepOnce(context.Background())

	assert.Equal(t, Stats{Sessions: 2, Limiters: 3, Images: 1}, st)
	assert.Equal(t, []string{"project-old"}, images.deleted)
	assert.Equal(t, 7*time.Minute, limiter.idle)
}

func TestSweepOnce_SkipsImagesWhenPortfolioUnavailable(t *testing.T) {
	images := &fakeImages{
		loadErr: errors.New("db closed"),
		created: map[string]time.Time{"project-old": time.Now().Add(-48 * time.Hour)},
	}
	s := New(Config{}, images, nil, nil)

	st := s.SweepOnce(context.Background())
	assert.Zero(t, st.Images)
	assert.Empty(t, images.deleted)
}

func TestRun_StopsOnCancel(t *testing.T) {
	images := &fakeImages{portfolio: domain.DefaultPortfolio(), created: map[string]time.Time{}}
	limiter := &fakeLimiter{}
	s := New(Config{Interval: 5 * time.Millisecond}, images, nil, limiter)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return limiter.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{}, &fakeImages{}, nil, nil)
	assert.Equal(t, defaultInterval, s.cfg.Interval)
	assert.Equal(t, defaultImageGrace, s.cfg.ImageGrace)
	assert.Equal(t, defaultLimiterIdle, s.cfg.LimiterIdle)
}
