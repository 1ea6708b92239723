package chat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/folio/internal/content"
	"github.com/ashureev/folio/internal/domain"
)

// Replies used when the model gives nothing usable.
const (
	EmptyReply = "I'm sorry, I couldn't process that request."
	ErrorReply = "Error: I'm having trouble connecting to my brain right now. Please try again later!"
)

// PortfolioSource supplies the content the system prompt is built from.
type PortfolioSource interface {
	GetPortfolio(ctx context.Context) (*domain.Portfolio, error)
}

// Service provides AI chat about the portfolio.
type Service struct {
	gen          Generator
	historyLimit int
	now          func() time.Time

	// Exactly one of fixedPrompt or live is used.
	fixedPrompt string
	fixedName   string
	live        PortfolioSource
}

// NewService creates a chat service whose system prompt is assembled once
// from the given content.
func NewService(gen Generator, seed *domain.Portfolio, historyLimit int) *Service {
	return &Service{
		gen:          gen,
		historyLimit: historyLimit,
		now:          time.Now,
		fixedPrompt:  content.BuildSystemPrompt(seed),
		fixedName:    seed.PersonalInfo.Name,
	}
}

// NewLiveService creates a chat service that rebuilds the system prompt from
// the stored portfolio on every turn.
func NewLiveService(gen Generator, src PortfolioSource, historyLimit int) *Service {
	return &Service{
		gen:          gen,
		historyLimit: historyLimit,
		now:          time.Now,
		live:         src,
	}
}

// HistoryLimit returns how many prior messages are forwarded to the model.
func (s *Service) HistoryLimit() int {
	return s.historyLimit
}

func (s *Service) portfolio(ctx context.Context) (prompt, name string, err error) {
	if s.live == nil {
		return s.fixedPrompt, s.fixedName, nil
	}
	p, err := s.live.GetPortfolio(ctx)
	if err != nil {
		return "", "", err
	}
	return content.BuildSystemPrompt(p), p.PersonalInfo.Name, nil
}

// Greeting returns the opening assistant message.
func (s *Service) Greeting(ctx context.Context) domain.ChatMessage {
	_, name, err := s.portfolio(ctx)
	if err != nil {
		slog.Warn("Failed to load portfolio for chat greeting", "error", err)
	}
	return domain.ChatMessage{Role: domain.RoleAssistant, Content: content.Greeting(name), Timestamp: s.now()}
}

// Reply answers message given the prior conversation. It never fails: model
// errors surface as ErrorReply and empty output as EmptyReply.
func (s *Service) Reply(ctx context.Context, history []domain.ChatMessage, message string) domain.ChatMessage {
	reply := domain.ChatMessage{Role: domain.RoleAssistant, Timestamp: s.now()}

	prompt, _, err := s.portfolio(ctx)
	if err != nil {
		slog.Error("Failed to load portfolio for chat", "error", err)
		reply.Content = ErrorReply
		return reply
	}

	text, err := s.gen.Generate(ctx, prompt, sanitizeHistory(lastN(history, s.historyLimit)), message)
	switch {
	case err != nil:
		slog.Error("Failed to generate chat reply", "error", err)
		reply.Content = ErrorReply
	case strings.TrimSpace(text) == "":
		reply.Content = EmptyReply
	default:
		reply.Content = text
	}
	reply.Timestamp = s.now()
	return reply
}

// sanitizeHistory drops messages with unknown roles or no text.
func sanitizeHistory(msgs []domain.ChatMessage) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if !domain.ValidRole(m.Role) || strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}
