// Package session provides the process-local and token-based session stores.
// The Redis-backed store lives with the other Redis adapters.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/savefarm/savefarm/internal/core/domain"
)

type memoryEntry struct {
	username  string
	expiresAt time.Time
}

// MemoryStore keeps sessions in a map. Sessions are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore returns a store whose sessions expire after ttl; zero keeps
// them until logout.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, username string) (string, error) {
	token := uuid.NewString()
	entry := memoryEntry{username: username}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.sessions[token] = entry
	s.mu.Unlock()
	return token, nil
}

func (s *MemoryStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", domain.ErrUnauthenticated
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return "", domain.ErrUnauthenticated
	}
	return entry.username, nil
}

func (s *MemoryStore) Invalidate(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

// Len reports the number of live and not yet pruned sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
