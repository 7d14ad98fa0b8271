package users

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user record persistence.
type Repository interface {
	// FindByToken looks up a user by token identifier. Returns (nil, nil)
	// when no record exists.
	FindByToken(ctx context.Context, tokenIdentifier string) (*User, error)
	// FindByID looks up a user by primary key. Returns (nil, nil) when no
	// record exists.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user User) (User, error)
	// SyncProfile overwrites the profile fields refreshed on sign-in.
	SyncProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) error
	// UpdatePreferences replaces the stored preferences object.
	UpdatePreferences(ctx context.Context, id uuid.UUID, prefs Preferences) error
}
