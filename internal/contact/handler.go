package contact

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/ashureev/folio/internal/api"
	"github.com/ashureev/folio/internal/domain"
	"github.com/go-chi/chi/v5"
)

const maxRequestBodySize = 32 << 10

// Response texts shown by the contact form.
const (
	StatusSent       = "Sent to Telegram"
	StatusFailed     = "Failed to Send"
	StatusMissingCfg = "Telegram configuration is missing in Admin panel."
)

// PortfolioSource supplies the Telegram settings stored with the portfolio.
type PortfolioSource interface {
	GetPortfolio(ctx context.Context) (*domain.Portfolio, error)
}

// Fallback holds Telegram settings used when the portfolio has none.
type Fallback struct {
	BotToken string
	ChatID   string
}

// Handler serves the contact form endpoint.
type Handler struct {
	src      PortfolioSource
	sender   Sender
	fallback Fallback
}

// NewHandler creates a contact handler.
func NewHandler(src PortfolioSource, sender Sender, fallback Fallback) *Handler {
	return &Handler{src: src, sender: sender, fallback: fallback}
}

// RegisterRoutes registers contact routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/contact", h.Submit)
}

// target resolves the bot token and chat id. Stored values win per field.
func (h *Handler) target(ctx context.Context) (token, chatID string, err error) {
	p, err := h.src.GetPortfolio(ctx)
	if err != nil {
		return "", "", err
	}
	token, chatID = p.PersonalInfo.TelegramBotToken, p.PersonalInfo.TelegramChatID
	if token == "" {
		token = h.fallback.BotToken
	}
	if chatID == "" {
		chatID = h.fallback.ChatID
	}
	return token, chatID, nil
}

func decodeMessage(r *http.Request) (*Message, error) {
	var msg Message
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			return nil, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		msg = Message{
			Name:    r.PostForm.Get("name"),
			Email:   r.PostForm.Get("email"),
			Message: r.PostForm.Get("message"),
		}
	}
	msg.Normalize()
	return &msg, nil
}

// Submit validates the form and relays it to Telegram.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	msg, err := decodeMessage(r)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := msg.Validate(); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	token, chatID, err := h.target(r.Context())
	if err != nil {
		slog.Error("Failed to load contact settings", "error", err)
		api.Error(w, http.StatusInternalServerError, "failed to load contact settings")
		return
	}
	if token == "" || chatID == "" {
		api.Error(w, http.StatusServiceUnavailable, StatusMissingCfg)
		return
	}

	if err := h.sender.Send(r.Context(), token, chatID, msg.Text()); err != nil {
		slog.Warn("Contact relay failed", "error", err)
		api.Error(w, http.StatusBadGateway, StatusFailed)
		return
	}

	slog.Info("Contact message relayed", "message_length", len(msg.Message))
	api.JSON(w, http.StatusOK, map[string]string{"status": StatusSent})
}
