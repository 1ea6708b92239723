package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ashureev/folio/internal/api"
	"github.com/ashureev/folio/internal/domain"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
)

// maxRequestBodySize bounds a chat request (message plus history).
const maxRequestBodySize = 64 << 10

// maxMessageLength bounds a single visitor message.
const maxMessageLength = 4000

// Request is the body of POST /api/chat.
type Request struct {
	Message string               `json:"message"`
	History []domain.ChatMessage `json:"history"`
}

// Response is the body returned by POST /api/chat.
type Response struct {
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

// wsMessage is the WebSocket frame shape in both directions.
type wsMessage struct {
	Type      string    `json:"type"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Handler serves the chat widget over HTTP and WebSocket.
type Handler struct {
	svc            *Service
	limiter        *RateLimiter
	sessions       *SessionManager
	originPatterns []string
}

// NewHandler creates a chat handler.
func NewHandler(svc *Service, limiter *RateLimiter, sessions *SessionManager, originPatterns []string) *Handler {
	if len(originPatterns) == 0 {
		originPatterns = []string{"*"}
	}
	return &Handler{svc: svc, limiter: limiter, sessions: sessions, originPatterns: originPatterns}
}

// RegisterRoutes registers chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/chat/greeting", h.HandleGreeting)
	r.Post("/api/chat", h.HandleChat)
	r.Get("/ws/chat", h.HandleWebSocket)
}

// HandleGreeting returns the opening assistant message.
func (h *Handler) HandleGreeting(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, h.svc.Greeting(r.Context()))
}

// HandleChat handles POST /api/chat. The client carries the history.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientKey(r)) {
		api.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	}
	if len(msg) > maxMessageLength {
		api.Error(w, http.StatusBadRequest, "message is too long")
		return
	}

	slog.Info("Chat request", "message_length", len(msg), "history", len(req.History))
	reply := h.svc.Reply(r.Context(), req.History, msg)
	api.JSON(w, http.StatusOK, Response{Reply: reply.Content, Timestamp: reply.Timestamp})
}

// HandleWebSocket serves GET /ws/chat. The server keeps the rolling history
// for the lifetime of the connection.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Warn("Failed to accept chat WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := conn.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close chat websocket", "error", closeErr)
		}
	}()
	conn.SetReadLimit(maxRequestBodySize)

	key := clientKey(r)
	h.sessions.Register(conn, key)
	defer h.sessions.Unregister(conn)

	ctx := r.Context()
	history := NewHistory(h.svc.HistoryLimit() + 1)

	greeting := h.svc.Greeting(ctx)
	history.Append(greeting)
	if err := wsjson.Write(ctx, conn, wsMessage{Type: "reply", Content: greeting.Content, Timestamp: greeting.Timestamp}); err != nil {
		slog.Debug("Failed to send chat greeting", "error", err)
		return
	}

	for {
		var in wsMessage
		if err := wsjson.Read(ctx, conn, &in); err != nil {
			logReadError(err)
			return
		}
		if in.Type != "message" {
			continue
		}

		out := h.turn(ctx, key, history, strings.TrimSpace(in.Content))
		if err := wsjson.Write(ctx, conn, out); err != nil {
			slog.Debug("Failed to write chat reply", "error", err)
			return
		}
	}
}

func (h *Handler) turn(ctx context.Context, key string, history *History, text string) wsMessage {
	switch {
	case text == "":
		return wsMessage{Type: "error", Content: "message is required"}
	case len(text) > maxMessageLength:
		return wsMessage{Type: "error", Content: "message is too long"}
	case !h.limiter.Allow(key):
		return wsMessage{Type: "error", Content: "rate limit exceeded"}
	}

	prior := history.Messages()
	reply := h.svc.Reply(ctx, prior, text)
	history.Append(domain.ChatMessage{Role: domain.RoleUser, Content: text, Timestamp: time.Now()})
	history.Append(reply)
	return wsMessage{Type: "reply", Content: reply.Content, Timestamp: reply.Timestamp}
}

func logReadError(err error) {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		slog.Debug("Chat WebSocket closed by client")
	default:
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Debug("Chat WebSocket read failed", "error", err)
	}
}

// clientKey returns the remote IP for rate limiting. chi's RealIP
// middleware has already rewritten RemoteAddr when behind a proxy.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
