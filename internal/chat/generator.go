// Package chat implements the portfolio's AI assistant.
package chat

import (
	"context"
	"errors"

	"github.com/ashureev/folio/internal/domain"
)

// ErrDisabled is returned when no model is configured.
var ErrDisabled = errors.New("chat model not configured")

// Generator produces one assistant reply for a conversation.
type Generator interface {
	// Generate answers message given the system prompt and prior turns.
	Generate(ctx context.Context, systemPrompt string, history []domain.ChatMessage, message string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, systemPrompt string, history []domain.ChatMessage, message string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, systemPrompt string, history []domain.ChatMessage, message string) (string, error) {
	return f(ctx, systemPrompt, history, message)
}

// DisabledGenerator always fails with ErrDisabled.
type DisabledGenerator struct{}

// Generate implements Generator.
func (DisabledGenerator) Generate(context.Context, string, []domain.ChatMessage, string) (string, error) {
	return "", ErrDisabled
}
