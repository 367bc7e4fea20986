package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nunajera/mistral-chat/internal/gateway"
)

// Registry owns every live session, keyed by an opaque handle.
type Registry struct {
	mu           sync.Mutex
	sessions     map[string]*Session
	gw           *gateway.Gateway
	defaultModel string
}

func NewRegistry(gw *gateway.Gateway, defaultModel string) *Registry {
	return &Registry{
		sessions:     make(map[string]*Session),
		gw:           gw,
		defaultModel: defaultModel,
	}
}

// Create starts a session under a fresh handle.
func (r *Registry) Create() *Session {
	s := New(uuid.NewString(), r.gw, r.defaultModel)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove ends a session; its conversation is dropped with it.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep ends sessions idle for longer than maxIdle and returns how many were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}
