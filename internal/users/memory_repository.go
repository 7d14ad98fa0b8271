package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository stores user records in an in-process map, ideal for
// local development or tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	data    map[uuid.UUID]User
	byToken map[string]uuid.UUID
}

// NewInMemoryRepository constructs a repository seeded with optional initial users.
func NewInMemoryRepository(initial []User) *InMemoryRepository {
	data := make(map[uuid.UUID]User, len(initial))
	byToken := make(map[string]uuid.UUID, len(initial))
	for _, user := range initial {
		data[user.ID] = user
		byToken[user.TokenIdentifier] = user.ID
	}
	return &InMemoryRepository{data: data, byToken: byToken}
}

// FindByToken looks up a user by token identifier.
func (r *InMemoryRepository) FindByToken(_ context.Context, tokenIdentifier string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[tokenIdentifier]
	if !ok {
		return nil, nil
	}
	user := r.data[id]
	return &user, nil
}

// FindByID looks up a user by primary key.
func (r *InMemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// Create stores a new user record.
func (r *InMemoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byToken[user.TokenIdentifier]; ok {
		return User{}, ErrDuplicateToken
	}

	r.data[user.ID] = user
	r.byToken[user.TokenIdentifier] = user.ID
	return user, nil
}

// SyncProfile overwrites the sign-in refreshed fields.
func (r *InMemoryRepository) SyncProfile(_ context.Context, id uuid.UUID, patch ProfilePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}

	user.Name = patch.Name
	user.Email = patch.Email
	user.ImageURL = patch.ImageURL
	user.LastSeenAt = patch.LastSeenAt
	user.UpdatedAt = patch.LastSeenAt
	r.data[id] = user
	return nil
}

// UpdatePreferences replaces the stored preferences.
func (r *InMemoryRepository) UpdatePreferences(_ context.Context, id uuid.UUID, prefs Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}

	user.Preferences = prefs
	user.UpdatedAt = time.Now()
	r.data[id] = user
	return nil
}
