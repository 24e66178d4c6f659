package ai

import (
	"fmt"

	"github.com/dailycopilot/dailycopilot/internal/ai/mock"
	"github.com/dailycopilot/dailycopilot/internal/ai/openrouter"
	"github.com/dailycopilot/dailycopilot/internal/config"
	"github.com/dailycopilot/dailycopilot/pkg/models"
)

// NewClient constructs the appropriate chat client based on config.
// Called once at server startup.
func NewClient(cfg config.AIConfig) (models.ChatClient, error) {
	switch cfg.Provider {
	case "openrouter":
		return openrouter.NewClient(cfg.OpenRouter), nil
	case "mock":
		return mock.NewClient(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of openrouter, mock", cfg.Provider)
	}
}
