// Package gateway sends conversations and document prompts to a chat provider
// with fixed generation parameters.
package gateway

import (
	"context"

	"github.com/nunajera/mistral-chat/internal"
	"github.com/nunajera/mistral-chat/internal/provider"
)

const (
	Temperature = 0.7
	MaxTokens   = 1000

	// DefaultDocumentBudget is how many characters of a document are embedded
	// into an analysis prompt.
	DefaultDocumentBudget = 6000
)

type Gateway struct {
	provider provider.ChatProvider
	budget   int
}

// Analysis is the outcome of a one-shot document prompt.
type Analysis struct {
	Prompt    string
	Reply     string
	Truncated bool
}

// New returns a gateway over p. A budget <= 0 uses DefaultDocumentBudget.
func New(p provider.ChatProvider, documentBudget int) *Gateway {
	return &Gateway{provider: p, budget: EffectiveBudget(documentBudget)}
}

// EffectiveBudget is the document budget a gateway built with n applies.
func EffectiveBudget(n int) int {
	if n <= 0 {
		return DefaultDocumentBudget
	}
	return n
}

func (g *Gateway) Provider() string { return g.provider.Name() }

// Complete sends the whole history and returns the first completion's text.
func (g *Gateway) Complete(ctx context.Context, model string, messages []internal.Message) (string, error) {
	if len(messages) == 0 {
		return "", internal.ErrEmptyConversation
	}
	return g.provider.Complete(ctx, provider.CompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
}

// Analyze asks about a document in isolation from any conversation.
// An empty question requests a summary.
func (g *Gateway) Analyze(ctx context.Context, model, document, question string) (Analysis, error) {
	prompt, truncated := BuildAnalysisPrompt(document, question, g.budget)
	reply, err := g.Complete(ctx, model, []internal.Message{internal.NewMessage(internal.RoleUser, prompt)})
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{Prompt: prompt, Reply: reply, Truncated: truncated}, nil
}
