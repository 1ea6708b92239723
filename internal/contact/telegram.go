// Package contact relays the site's contact form to a Telegram chat.
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

// Sender delivers a text message to a chat.
type Sender interface {
	Send(ctx context.Context, token, chatID, text string) error
}

// TelegramClient talks to the Telegram Bot API sendMessage method.
type TelegramClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTelegramClient creates a client. An empty baseURL uses the public API.
func NewTelegramClient(baseURL string) *TelegramClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &TelegramClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// APIError is a non-2xx reply from the Bot API.
type APIError struct {
	Status      int
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("telegram API error (HTTP %d): %s", e.Status, e.Description)
	}
	return fmt.Sprintf("telegram API error (HTTP %d)", e.Status)
}

// Send posts text to chatID using the bot token. It does not retry.
func (c *TelegramClient) Send(ctx context.Context, token, chatID, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	url := c.baseURL + "/bot" + token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the bot token; keep it out of logs.
		return fmt.Errorf("executing request: %w", redact(err, token))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var decoded apiResponse
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); readErr == nil {
			if json.Unmarshal(raw, &decoded) == nil {
				apiErr.Description = decoded.Description
			}
		}
		return apiErr
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, token string) error {
	if token == "" {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<redacted>"), err: err}
}
