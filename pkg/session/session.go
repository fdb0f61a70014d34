// Package session tracks live datasource connections per client session.
// Each successful connect yields a session ID; all later operations name the
// session instead of resending the locator.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/querylens/querylens/pkg/datasource"
)

// Session ties one client session to one open datasource handle.
type Session struct {
	ID        string
	Handle    *datasource.Handle
	CreatedAt time.Time
}

// Registry is a concurrency-safe session table.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create registers handle under a fresh session ID.
func (r *Registry) Create(handle *datasource.Handle) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Handle:    handle,
		CreatedAt: time.Now(),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get looks up a session by ID.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove deletes and returns the session so the caller can close its handle.
// The second return is false when the ID was unknown.
func (r *Registry) Remove(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
