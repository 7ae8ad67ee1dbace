package services

import "sync"

// TokenStore tracks revoked session tokens. Injected so the in-process
// implementation can be swapped for an external cache in a distributed
// deployment.
type TokenStore interface {
	Revoke(token string)
	IsRevoked(token string) bool
}

// MemoryTokenStore is a mutex-guarded in-process TokenStore. The lock is
// never held across I/O.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

// NewMemoryTokenStore creates an empty in-memory token store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{revoked: make(map[string]struct{})}
}

// Revoke marks a token as revoked
func (s *MemoryTokenStore) Revoke(token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = struct{}{}
}

// IsRevoked reports whether a token has been revoked
func (s *MemoryTokenStore) IsRevoked(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[token]
	return ok
}
