package chat

import (
	"context"
	"fmt"

	"github.com/ashureev/folio/internal/domain"
	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini-backed generator.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	TopP        float32
	// BaseURL overrides the API endpoint. Empty uses the default.
	BaseURL string
}

// GeminiGenerator answers chat turns through Google's Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	cfg    GeminiConfig
}

// NewGeminiGenerator creates a Gemini client.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-3-flash-preview"
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, cfg: cfg}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt string, history []domain.ChatMessage, message string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(g.cfg.Temperature),
		TopP:              genai.Ptr(g.cfg.TopP),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

var _ Generator = (*GeminiGenerator)(nil)
