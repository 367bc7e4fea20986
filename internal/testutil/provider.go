// Package testutil holds fakes shared by package tests.
package testutil

import (
	"context"
	"sync"

	"github.com/nunajera/mistral-chat/internal"
	"github.com/nunajera/mistral-chat/internal/provider"
)

// RecordingProvider remembers every request and answers with Reply or Err.
type RecordingProvider struct {
	mu       sync.Mutex
	Reply    string
	Err      error
	requests []provider.CompletionRequest
}

func (p *RecordingProvider) Name() string { return "recording" }

func (p *RecordingProvider) Complete(_ context.Context, req provider.CompletionRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := make([]internal.Message, len(req.Messages))
	copy(msgs, req.Messages)
	req.Messages = msgs
	p.requests = append(p.requests, req)
	if p.Err != nil {
		return "", p.Err
	}
	return p.Reply, nil
}

func (p *RecordingProvider) Requests() []provider.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]provider.CompletionRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

func (p *RecordingProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// Fail switches the provider to returning err.
func (p *RecordingProvider) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Err = err
}
