package store

import (
	"sync"

	"github.com/nunajera/mistral-chat/internal"
)

// MemoryStore is the append-only message log of a single session.
type MemoryStore struct {
	mu       sync.Mutex
	messages []internal.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{messages: make([]internal.Message, 0, 64)}
}

// Snapshot returns a copy of the log as of the call.
func (s *MemoryStore) Snapshot() []internal.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]internal.Message, len(s.messages))
	copy(cp, s.messages)
	return cp
}

func (s *MemoryStore) Append(msg internal.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Clear drops every message. Earlier snapshots keep their own copy.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]internal.Message, 0, 64)
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
