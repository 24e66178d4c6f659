// Package models contains shared data models used across the DailyCopilot codebase.
package models

import (
	"context"
	"errors"
)

// Sentinel errors returned by ChatClient implementations. Callers classify
// provider failures with errors.Is against these.
var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
)

// Chat message roles accepted by the chat-completions contract.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ChatMessage is one role-tagged message in a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the input to a chat-completion call. When JSONResponse is
// set, the provider is asked to return a single JSON object as the message
// content.
type ChatRequest struct {
	Model        string
	Messages     []ChatMessage
	JSONResponse bool
}

// ChatClient is the core interface for hosted language-model integrations.
// Never call a specific provider directly — always inject this interface.
type ChatClient interface {
	// Complete sends the request and returns the assistant message content.
	Complete(ctx context.Context, req ChatRequest) (string, error)
	// Name returns the provider identifier (e.g., "openrouter").
	Name() string
}
