package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore issues and validates bearer tokens for authenticated
// operators. Sessions live in memory only and die with the process.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Issue creates a new session token and returns it with its expiry.
func (s *SessionStore) Issue() (string, time.Time) {
	token := uuid.New().String()
	expiry := s.now().Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = expiry

	return token, expiry
}

// Validate reports whether the token names a live session. Expired
// sessions are pruned on the way out.
func (s *SessionStore) Validate(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Revoke removes a session.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
