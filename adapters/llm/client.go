// Package llm provides an HTTP client for the chat-completion API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aviatehq/aviate/domain/chat"
	"github.com/aviatehq/aviate/ports"
	"github.com/rs/zerolog"
)

// ErrEmptyResponse signals the API returned no choices.
var ErrEmptyResponse = errors.New("llm: empty completion response")

// Config contains configuration for the completion client.
type Config struct {
	// BaseURL of an OpenAI-compatible API, without trailing slash.
	BaseURL string

	APIKey string

	// Model passed on every request.
	Model string

	// Timeout bounds each completion call.
	Timeout time.Duration

	// MaxTokens caps the completion length. 0 = provider default.
	MaxTokens int
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

// New creates a completion client.
func New(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "llm").Logger(),
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model     string        `json:"model"`
	Messages  []wireMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends the message array and returns the assistant reply with
// token usage. Quota exhaustion is mapped to chat.ErrQuotaExhausted so the
// service layer can degrade to a fallback message.
func (c *Client) Complete(ctx context.Context, messages []chat.Message) (chat.Completion, error) {
	payload := completionRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages:  make([]wireMessage, len(messages)),
	}
	for i, m := range messages {
		payload.Messages[i] = wireMessage{Role: string(m.Role), Content: m.Content}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return chat.Completion{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return chat.Completion{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return chat.Completion{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return chat.Completion{}, fmt.Errorf("read response: %w", err)
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return chat.Completion{}, fmt.Errorf("parse response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || isQuotaError(parsed) {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("completion quota exhausted")
		return chat.Completion{}, chat.ErrQuotaExhausted
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		c.logger.Error().Int("status", resp.StatusCode).Str("error", msg).Msg("completion failed")
		return chat.Completion{}, fmt.Errorf("llm: status %d: %s", resp.StatusCode, msg)
	}
	if len(parsed.Choices) == 0 {
		return chat.Completion{}, ErrEmptyResponse
	}

	return chat.Completion{
		Message: chat.Message{
			Role:    chat.RoleAssistant,
			Content: parsed.Choices[0].Message.Content,
		},
		Usage: chat.Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		},
	}, nil
}

func isQuotaError(resp completionResponse) bool {
	if resp.Error == nil {
		return false
	}
	return resp.Error.Type == "insufficient_quota" ||
		resp.Error.Code == "insufficient_quota" ||
		strings.Contains(resp.Error.Message, "quota")
}

// Ensure interface compliance.
var _ ports.ChatProvider = (*Client)(nil)
