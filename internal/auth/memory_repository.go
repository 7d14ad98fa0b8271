package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemorySessionRepository stores sessions in an in-process map for local
// development and tests.
type InMemorySessionRepository struct {
	mu     sync.RWMutex
	byHash map[string]Session
}

// NewInMemorySessionRepository constructs an empty session store.
func NewInMemorySessionRepository() *InMemorySessionRepository {
	return &InMemorySessionRepository{byHash: make(map[string]Session)}
}

// CreateSession stores a new session.
func (r *InMemorySessionRepository) CreateSession(_ context.Context, session Session, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byHash[tokenHash] = session
	return nil
}

// FindSessionByTokenHash looks up a session by token hash.
func (r *InMemorySessionRepository) FindSessionByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.byHash[tokenHash]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

// DeleteSession removes a session by ID.
func (r *InMemorySessionRepository) DeleteSession(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, session := range r.byHash {
		if session.ID == id {
			delete(r.byHash, hash)
		}
	}
	return nil
}

// DeleteExpiredSessions removes all sessions past their expiry.
func (r *InMemorySessionRepository) DeleteExpiredSessions(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	var removed int64
	for hash, session := range r.byHash {
		if now.After(session.ExpiresAt) {
			delete(r.byHash, hash)
			removed++
		}
	}
	return removed, nil
}
