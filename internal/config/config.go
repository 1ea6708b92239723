// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port           string
	FrontendURL    string
	DBPath         string
	SeedPath       string
	MaxUploadBytes int64
	PlaceholderURL string
	SweepInterval  time.Duration
	ImageGrace     time.Duration
	Admin          AdminConfig
	Chat           ChatConfig
	Telegram       TelegramConfig
}

// AdminConfig controls the admin editor gate.
type AdminConfig struct {
	DefaultUsername string
	DefaultPassword string
	SessionTTL      time.Duration
	SecureCookies   bool
}

// ChatConfig controls the AI chat widget.
type ChatConfig struct {
	APIKey       string
	Model        string
	Temperature  float64
	TopP         float64
	HistoryLimit int
	PromptSource string // "seed" or "live"
	RatePerMin   int
	RateBurst    int
}

// TelegramConfig holds the contact relay fallbacks. Values stored in the
// portfolio take precedence over these.
type TelegramConfig struct {
	APIURL   string
	BotToken string
	ChatID   string
}

// Prompt sources accepted by CHAT_PROMPT_SOURCE.
const (
	PromptSourceSeed = "seed"
	PromptSourceLive = "live"
)

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	apiKey := getEnv("GEMINI_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("API_KEY", "")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    getEnv("FRONTEND_URL", ""),
		DBPath:         getEnv("DB_PATH", "./data/folio.db"),
		SeedPath:       getEnv("SEED_PATH", ""),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 5<<20)),
		PlaceholderURL: getEnv("PLACEHOLDER_IMAGE_URL", "https://picsum.photos/800/450"),
		SweepInterval:  getEnvDuration("SWEEP_INTERVAL", 5*time.Minute),
		ImageGrace:     getEnvDuration("IMAGE_GRACE", time.Hour),
		Admin: AdminConfig{
			DefaultUsername: getEnv("ADMIN_USERNAME", "admin"),
			DefaultPassword: getEnv("ADMIN_PASSWORD", "password123"),
			SessionTTL:      getEnvDuration("ADMIN_SESSION_TTL", 24*time.Hour),
		},
		Chat: ChatConfig{
			APIKey:       apiKey,
			Model:        getEnv("CHAT_MODEL", "gemini-3-flash-preview"),
			Temperature:  getEnvFloat("CHAT_TEMPERATURE", 0.7),
			TopP:         getEnvFloat("CHAT_TOP_P", 0.95),
			HistoryLimit: getEnvInt("CHAT_HISTORY_LIMIT", 10),
			PromptSource: strings.ToLower(getEnv("CHAT_PROMPT_SOURCE", PromptSourceSeed)),
			RatePerMin:   getEnvInt("CHAT_RATE_PER_MIN", 20),
			RateBurst:    getEnvInt("CHAT_RATE_BURST", 5),
		},
		Telegram: TelegramConfig{
			APIURL:   getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
	}

	cfg.Admin.SecureCookies = getEnvBool("COOKIE_SECURE", !cfg.IsDevelopment())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be > 0")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if c.ImageGrace <= 0 {
		return fmt.Errorf("IMAGE_GRACE must be > 0")
	}
	if c.Admin.SessionTTL <= 0 {
		return fmt.Errorf("ADMIN_SESSION_TTL must be > 0")
	}
	if c.Admin.DefaultUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME cannot be empty")
	}
	if c.Chat.HistoryLimit < 0 {
		return fmt.Errorf("CHAT_HISTORY_LIMIT must be >= 0")
	}
	if c.Chat.RatePerMin <= 0 || c.Chat.RateBurst <= 0 {
		return fmt.Errorf("CHAT_RATE_PER_MIN and CHAT_RATE_BURST must be > 0")
	}
	switch c.Chat.PromptSource {
	case PromptSourceSeed, PromptSourceLive:
	default:
		return fmt.Errorf("CHAT_PROMPT_SOURCE must be %q or %q", PromptSourceSeed, PromptSourceLive)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// AllowedOrigins returns the CORS origins for the JSON API.
func (c *Config) AllowedOrigins() []string {
	if c.FrontendURL == "" {
		return []string{"*"}
	}
	return []string{strings.TrimRight(c.FrontendURL, "/")}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
