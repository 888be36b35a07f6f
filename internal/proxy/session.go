package proxy

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookie is the name of the dashboard's session cookie.
const SessionCookie = "docwatch_session"

// Sessions is an in-memory registry of opaque session ids with expiry.
// Safe for concurrent use.
type Sessions struct {
	ttl time.Duration
	now func() time.Time

	mu     sync.Mutex
	expiry map[string]time.Time
}

// NewSessions creates a registry whose sessions live for ttl.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:    ttl,
		now:    time.Now,
		expiry: make(map[string]time.Time),
	}
}

// Create registers a new session and returns its opaque id.
func (s *Sessions) Create() string {
	id := uuid.Must(uuid.NewV7()).String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiry[id] = s.now().Add(s.ttl)
	return id
}

// Valid reports whether id names a live session. Expired entries are
// removed on sight.
func (s *Sessions) Valid(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline, ok := s.expiry[id]
	if !ok {
		return false
	}
	if s.now().After(deadline) {
		delete(s.expiry, id)
		return false
	}
	return true
}

// Revoke removes a session immediately.
func (s *Sessions) Revoke(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expiry, id)
}

// Len returns the number of registered sessions, expired or not.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiry)
}

// Sweep removes all expired sessions and returns how many were dropped.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for id, deadline := range s.expiry {
		if now.After(deadline) {
			delete(s.expiry, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps expired sessions at the given interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
