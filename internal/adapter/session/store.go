package session

import (
	"context"
	"sync"

	domain "clinic-service/internal/domain/user"
)

// Store persists the association between a session token and an identity.
type Store interface {
	// Get returns the identity for token, or nil if the token is unknown.
	Get(ctx context.Context, token string) (*domain.Identity, error)

	// Put associates token with identity, replacing any previous value.
	Put(ctx context.Context, token string, identity *domain.Identity) error

	// Delete removes token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
}

// MemoryStore keeps sessions in process memory for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Identity
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]domain.Identity)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, token string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	return &identity, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, token string, identity *domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = *identity
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
