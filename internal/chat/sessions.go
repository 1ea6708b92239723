package chat

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// SessionManager tracks open chat WebSocket connections so they can be
// closed together on shutdown.
type SessionManager struct {
	mu     sync.Mutex
	active map[*websocket.Conn]string // conn -> remote address
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{active: make(map[*websocket.Conn]string)}
}

// Register adds a connection.
func (m *SessionManager) Register(conn *websocket.Conn, remote string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[conn] = remote
	slog.Debug("Chat session registered", "remote", remote, "active", len(m.active))
}

// Unregister removes a connection.
func (m *SessionManager) Unregister(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if remote, ok := m.active[conn]; ok {
		delete(m.active, conn)
		slog.Debug("Chat session unregistered", "remote", remote, "active", len(m.active))
	}
}

// Count returns the number of open sessions.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// CloseAll terminates every open session.
func (m *SessionManager) CloseAll(reason string) {
	m.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(m.active))
	for c := range m.active {
		conns = append(conns, c)
	}
	clear(m.active)
	m.mu.Unlock()

	for _, c := range conns {
		_ = c.Close(websocket.StatusGoingAway, reason)
	}
}
