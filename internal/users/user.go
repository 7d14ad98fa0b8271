package users

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates that no user record matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateToken indicates an insert collided with an existing record for
// the same token identifier.
var ErrDuplicateToken = errors.New("token identifier already exists")

// AnonymousName is used when the identity provider supplies no display name.
const AnonymousName = "Anonymous"

// User is the profile record kept for each signed-in principal. Exactly one
// record exists per TokenIdentifier; the identifier is assigned by the
// identity provider and never changes after creation.
type User struct {
	ID              uuid.UUID   `json:"id"`
	TokenIdentifier string      `json:"tokenIdentifier"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	ImageURL        string      `json:"imageUrl,omitempty"`
	Preferences     Preferences `json:"preferences"`
	LastSeenAt      time.Time   `json:"lastSeenAt"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Preferences holds per-user application settings. Theme is "light", "dark"
// or "system" by convention but stored as a free-form string.
type Preferences struct {
	Theme    string `json:"theme,omitempty"`
	Language string `json:"language,omitempty"`
}

// Identity carries the claims extracted from the provider's ID token that
// are relevant to profile sync. Empty fields mean the claim was absent.
type Identity struct {
	Subject    string
	Name       string
	Email      string
	PictureURL string
}

// ProfilePatch is the set of fields refreshed on every sign-in sync.
type ProfilePatch struct {
	Name       string
	Email      string
	ImageURL   string
	LastSeenAt time.Time
}
