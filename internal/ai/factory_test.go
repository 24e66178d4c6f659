package ai_test

import (
	"testing"

	"github.com/dailycopilot/dailycopilot/internal/ai"
	"github.com/dailycopilot/dailycopilot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_OpenRouter(t *testing.T) {
	client, err := ai.NewClient(config.AIConfig{
		Provider: "openrouter",
		OpenRouter: config.OpenRouterConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			APIKey:  "sk-or-test",
			Model:   "meta-llama/llama-4-maverick",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "openrouter", client.Name())
}

func TestNewClient_Mock(t *testing.T) {
	client, err := ai.NewClient(config.AIConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.Equal(t, "mock", client.Name())
}

func TestNewClient_Unknown(t *testing.T) {
	_, err := ai.NewClient(config.AIConfig{Provider: "copilot"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copilot")
}
