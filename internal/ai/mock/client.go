package mock

import (
	"context"

	"github.com/dailycopilot/dailycopilot/pkg/models"
)

// MockClient satisfies models.ChatClient for testing.
type MockClient struct {
	Name_        string
	CompleteFunc func(ctx context.Context, req models.ChatRequest) (string, error)

	// Requests records every request passed to Complete.
	Requests []models.ChatRequest
}

func (m *MockClient) Name() string {
	if m.Name_ == "" {
		return "mock"
	}
	return m.Name_
}

func (m *MockClient) Complete(ctx context.Context, req models.ChatRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "{}", nil
}

// NewClient returns a MockClient that answers every request with an empty
// JSON object.
func NewClient() *MockClient {
	return &MockClient{Name_: "mock"}
}

// NewStaticClient returns a MockClient that always answers with content.
func NewStaticClient(content string) *MockClient {
	return &MockClient{
		Name_: "mock",
		CompleteFunc: func(_ context.Context, _ models.ChatRequest) (string, error) {
			return content, nil
		},
	}
}

// NewFailingClient returns a MockClient that always returns the given error.
func NewFailingClient(err error) *MockClient {
	return &MockClient{
		Name_: "mock-failing",
		CompleteFunc: func(_ context.Context, _ models.ChatRequest) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutClient returns a MockClient that blocks until context is cancelled.
func NewTimeoutClient() *MockClient {
	return &MockClient{
		Name_: "mock-timeout",
		CompleteFunc: func(ctx context.Context, _ models.ChatRequest) (string, error) {
			<-ctx.Done()
			return "", models.ErrInferenceTimeout
		},
	}
}

// Compile-time check that MockClient implements ChatClient.
var _ models.ChatClient = (*MockClient)(nil)
