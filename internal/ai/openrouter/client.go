package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/dailycopilot/dailycopilot/internal/config"
	"github.com/dailycopilot/dailycopilot/pkg/models"
)

// Client implements models.ChatClient against the OpenRouter
// chat-completions API.
type Client struct {
	cfg    config.OpenRouterConfig
	client *http.Client
}

// NewClient creates a new OpenRouter client. Per-call deadlines come from the
// request context, so the underlying http.Client carries no timeout of its own.
func NewClient(cfg config.OpenRouterConfig) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (c *Client) Name() string { return "openrouter" }

type chatCompletionRequest struct {
	Model          string               `json:"model"`
	Messages       []models.ChatMessage `json:"messages"`
	ResponseFormat *responseFormat      `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a chat-completion request and returns the assistant message
// content. Any non-2xx status or undecodable body is reported as an error so
// callers can route to their deterministic fallback.
func (c *Client) Complete(ctx context.Context, req models.ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	payload := chatCompletionRequest{
		Model:    model,
		Messages: req.Messages,
	}
	if req.JSONResponse {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	u := c.cfg.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("HTTP-Referer", "https://dailycopilot.app")
	httpReq.Header.Set("X-Title", "DailyCopilot")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", models.ErrProviderUnavailable, resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%w: decoding body: %v", models.ErrInvalidResponse, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", models.ErrInvalidResponse)
	}

	return completion.Choices[0].Message.Content, nil
}

// classifyError maps transport errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
	}
	return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
}

var _ models.ChatClient = (*Client)(nil)
