package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service provides user profile business logic.
type Service struct {
	repo     Repository
	notifier *Notifier
	now      func() time.Time
}

// NewService creates a new user Service. The notifier is optional; when
// present, every successful write is published to it.
func NewService(repo Repository, notifier *Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

// Upsert ensures a user record exists for the given identity and refreshes
// its profile fields from the current claims. Name and email keep their
// stored values when the claim is absent; the image URL is overwritten
// unconditionally, so a removed provider picture clears the stored one.
// Idempotent with respect to the token identifier.
func (s *Service) Upsert(ctx context.Context, identity Identity) (User, error) {
	existing, err := s.repo.FindByToken(ctx, identity.Subject)
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}

	now := s.now()

	if existing != nil {
		patch := ProfilePatch{
			Name:       identity.Name,
			Email:      identity.Email,
			ImageURL:   identity.PictureURL,
			LastSeenAt: now,
		}
		if patch.Name == "" {
			patch.Name = existing.Name
		}
		if patch.Email == "" {
			patch.Email = existing.Email
		}

		if err := s.repo.SyncProfile(ctx, existing.ID, patch); err != nil {
			return User{}, fmt.Errorf("sync profile: %w", err)
		}

		existing.Name = patch.Name
		existing.Email = patch.Email
		existing.ImageURL = patch.ImageURL
		existing.LastSeenAt = now
		existing.UpdatedAt = now
		s.publish(*existing)
		return *existing, nil
	}

	newUser := User{
		ID:              uuid.New(),
		TokenIdentifier: identity.Subject,
		Name:            identity.Name,
		Email:           identity.Email,
		ImageURL:        identity.PictureURL,
		LastSeenAt:      now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if newUser.Name == "" {
		newUser.Name = AnonymousName
	}

	created, err := s.repo.Create(ctx, newUser)
	if err != nil {
		if errors.Is(err, ErrDuplicateToken) {
			// Lost the insert race to a concurrent sync for the same
			// identity; the retry takes the patch path instead.
			return s.Upsert(ctx, identity)
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	s.publish(created)
	return created, nil
}

// ProfileByToken returns the user record for the given token identifier,
// or nil when no record exists. Absence is not an error.
func (s *Service) ProfileByToken(ctx context.Context, tokenIdentifier string) (*User, error) {
	user, err := s.repo.FindByToken(ctx, tokenIdentifier)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdatePreferences replaces the stored preferences for the user identified
// by the token. Returns ErrNotFound when the record is missing, which a
// correctly gated client should never observe.
func (s *Service) UpdatePreferences(ctx context.Context, tokenIdentifier string, prefs Preferences) (User, error) {
	user, err := s.repo.FindByToken(ctx, tokenIdentifier)
	if err != nil {
		return User{}, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return User{}, ErrNotFound
	}

	if err := s.repo.UpdatePreferences(ctx, user.ID, prefs); err != nil {
		return User{}, fmt.Errorf("update preferences: %w", err)
	}

	user.Preferences = prefs
	user.UpdatedAt = s.now()
	s.publish(*user)
	return *user, nil
}

// ByID is a privileged lookup by primary key, not exposed through the API.
// Returns (nil, nil) when no record exists.
func (s *Service) ByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return user, nil
}

func (s *Service) publish(user User) {
	if s.notifier != nil {
		s.notifier.Publish(user)
	}
}
