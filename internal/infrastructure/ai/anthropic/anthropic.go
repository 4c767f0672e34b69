// Package anthropic implements assistant.Completer on the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"bizdesk/internal/domain/assistant"
)

const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-haiku-20240307"

	apiVersion = "2023-06-01"
	maxTokens  = 1024
)

// Config for the client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client calls the Messages API.
type Client struct {
	http  *resty.Client
	model string
}

var _ assistant.Completer = (*Client)(nil)

// NewClient creates a configured Anthropic client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{http: http, model: cfg.Model}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete implements assistant.Completer.
func (c *Client) Complete(ctx context.Context, req assistant.Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	msgs := make([]message, 0, len(req.History)+1)
	for _, m := range req.History {
		if m.Fallback {
			continue
		}
		msgs = append(msgs, message{Role: string(m.Role), Content: m.Text})
	}
	msgs = append(msgs, message{Role: "user", Content: req.Prompt})

	var (
		out     messageResponse
		failure errorResponse
	)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(messageRequest{
			Model:     model,
			MaxTokens: maxTokens,
			System:    req.System,
			Messages:  msgs,
		}).
		SetResult(&out).
		SetError(&failure).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		if failure.Error.Message != "" {
			return "", fmt.Errorf("anthropic api error (%d): %s", resp.StatusCode(), failure.Error.Message)
		}
		return "", fmt.Errorf("anthropic api error (%d): %s", resp.StatusCode(), resp.String())
	}

	var b strings.Builder
	for _, part := range out.Content {
		if part.Type == "" || part.Type == "text" {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty response from anthropic")
	}
	return b.String(), nil
}
