// Package session holds one user's conversation and model selection and
// drives the gateway on their behalf.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nunajera/mistral-chat/internal"
	"github.com/nunajera/mistral-chat/internal/extract"
	"github.com/nunajera/mistral-chat/internal/gateway"
	"github.com/nunajera/mistral-chat/internal/store"
)

// Upload is a file handed over by the presentation layer.
type Upload struct {
	Name      string
	MediaType string
	Data      []byte
}

// FileResult is the user/assistant pair appended after a document analysis.
type FileResult struct {
	Request   internal.Message
	Reply     internal.Message
	Truncated bool
}

type Session struct {
	ID string

	// op serializes user-triggered operations; one runs to completion before the next.
	op      sync.Mutex
	gw      *gateway.Gateway
	history *store.MemoryStore

	mu       sync.Mutex
	model    string
	lastSeen time.Time
}

// New starts an empty session. An unknown defaultModel falls back to internal.DefaultModel.
func New(id string, gw *gateway.Gateway, defaultModel string) *Session {
	if !internal.IsKnownModel(defaultModel) {
		defaultModel = internal.DefaultModel
	}
	return &Session{
		ID:       id,
		gw:       gw,
		history:  store.NewMemoryStore(),
		model:    defaultModel,
		lastSeen: time.Now(),
	}
}

func (s *Session) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// SelectModel switches the model used for later calls. It waits for a
// running operation to finish first.
func (s *Session) SelectModel(id string) error {
	if !internal.IsKnownModel(id) {
		return &internal.InvalidModelError{Model: id}
	}
	s.op.Lock()
	defer s.op.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = id
	s.lastSeen = time.Now()
	return nil
}

func (s *Session) History() []internal.Message {
	return s.history.Snapshot()
}

// Submit records the user's text, asks the model with the whole history and
// records the reply. When the call fails the user message is kept.
func (s *Session) Submit(ctx context.Context, text string) (internal.Message, error) {
	if strings.TrimSpace(text) == "" {
		return internal.Message{}, internal.ErrEmptyInput
	}
	s.op.Lock()
	defer s.op.Unlock()
	s.touch()

	s.history.Append(internal.NewMessage(internal.RoleUser, text))
	model := s.Model()
	reply, err := s.gw.Complete(ctx, model, s.history.Snapshot())
	if err != nil {
		slog.Warn("completion_failed", "session", s.ID, "model", model, "error", err)
		return internal.Message{}, err
	}
	msg := internal.NewMessage(internal.RoleAssistant, reply)
	s.history.Append(msg)
	return msg, nil
}

// SubmitFile extracts the upload, runs a one-shot analysis and appends a
// description of the request together with the answer.
func (s *Session) SubmitFile(ctx context.Context, up Upload, question string) (FileResult, error) {
	text, err := extract.Extract(up.Data, up.MediaType, up.Name)
	if err != nil {
		return FileResult{}, err
	}

	s.op.Lock()
	defer s.op.Unlock()
	s.touch()

	model := s.Model()
	res, err := s.gw.Analyze(ctx, model, text, question)
	if err != nil {
		slog.Warn("analysis_failed", "session", s.ID, "model", model, "file", up.Name, "error", err)
		return FileResult{}, err
	}
	if res.Truncated {
		slog.Debug("document_truncated", "session", s.ID, "file", up.Name, "chars", len([]rune(text)))
	}

	out := FileResult{
		Request:   internal.NewMessage(internal.RoleUser, describeRequest(up.Name, question)),
		Reply:     internal.NewMessage(internal.RoleAssistant, res.Reply),
		Truncated: res.Truncated,
	}
	s.history.Append(out.Request)
	s.history.Append(out.Reply)
	return out, nil
}

// Reset empties the conversation. The model selection is kept.
func (s *Session) Reset() {
	s.op.Lock()
	defer s.op.Unlock()
	s.touch()
	s.history.Clear()
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func describeRequest(name, question string) string {
	if name == "" {
		name = "document"
	}
	if q := strings.TrimSpace(question); q != "" {
		return fmt.Sprintf("Question about %q: %s", name, q)
	}
	return fmt.Sprintf("Summarize document %q", name)
}
