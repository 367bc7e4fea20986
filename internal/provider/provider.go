package provider

import (
	"context"
	"fmt"

	"github.com/nunajera/mistral-chat/internal"
)

// CompletionRequest is everything a provider needs for one round trip.
type CompletionRequest struct {
	Model       string
	Messages    []internal.Message
	Temperature float64
	MaxTokens   int
}

type ChatProvider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Fallback provider (mock) that answers without calling any API.
type MockProvider struct{}

func (m MockProvider) Name() string { return "mock" }

func (m MockProvider) Complete(_ context.Context, req CompletionRequest) (string, error) {
	last := ""
	if n := len(req.Messages); n > 0 {
		last = req.Messages[n-1].Content
	}
	return fmt.Sprintf("(mock %s) You said: %q", req.Model, last), nil
}
