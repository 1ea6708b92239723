// Package auth gates the admin editor behind the stored credentials and keeps
// one draft of the portfolio per signed-in session.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/ashureev/folio/internal/domain"
)

var tokenPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Session is one signed-in admin. Draft holds the unsaved edits.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time

	mu    sync.Mutex
	draft *domain.Portfolio
}

// Edit applies fn to the draft under the session lock.
func (s *Session) Edit(fn func(p *domain.Portfolio) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.draft)
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() *domain.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// ReplaceDraft swaps the draft for p.
func (s *Session) ReplaceDraft(p *domain.Portfolio) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = p
}

// Manager holds the open admin sessions in memory. Restarting the server
// signs everyone out and discards their drafts.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a session manager with the given session lifetime.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Open starts a session for username editing draft.
func (m *Manager) Open(username string, draft *domain.Portfolio) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := &Session{
		Token:     token,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
		draft:     draft,
	}

	m.mu.Lock()
	m.sessions[token] = s
	m.mu.Unlock()

	slog.Info("Admin session opened", "username", username, "expires_at", s.ExpiresAt)
	return s, nil
}

// Get returns the live session for token, or nil.
func (m *Manager) Get(token string) *Session {
	if !tokenPattern.MatchString(token) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil
	}
	if !m.now().Before(s.ExpiresAt) {
		delete(m.sessions, token)
		return nil
	}
	return s
}

// Close ends the session and drops its draft.
func (m *Manager) Close(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		delete(m.sessions, token)
		slog.Info("Admin session closed", "username", s.Username)
	}
}

// CloseAll ends every session and returns how many were open.
func (m *Manager) CloseAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.sessions)
	clear(m.sessions)
	return n
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for token, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, token)
			removed++
		}
	}
	return removed
}

// DraftImageIDs returns the local image ids referenced by any open draft.
// Images uploaded during an edit are not orphans until the session ends.
func (m *Manager) DraftImageIDs() map[string]struct{} {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	ids := make(map[string]struct{})
	for _, s := range open {
		s.mu.Lock()
		for id := range s.draft.ReferencedImageIDs() {
			ids[id] = struct{}{}
		}
		s.mu.Unlock()
	}
	return ids
}

// CredentialSource supplies the stored admin credentials.
type CredentialSource interface {
	GetCredentials(ctx context.Context) (*domain.Credentials, error)
}

// Authenticate compares username and password against the stored credentials.
func Authenticate(ctx context.Context, src CredentialSource, username, password string) (bool, error) {
	creds, err := src.GetCredentials(ctx)
	if err != nil {
		return false, fmt.Errorf("load credentials: %w", err)
	}
	return creds.Matches(username, password), nil
}
