package auth

import (
	"errors"

	"launchpad/internal/users"
)

// ErrUnauthenticated indicates the caller holds no valid session.
var ErrUnauthenticated = errors.New("not authenticated")

// ErrUserNotFound indicates the caller's session is valid but the matching
// profile record is missing. Callers must treat this differently from
// ErrUnauthenticated: the fix is re-running the sign-in sync, not logging in.
var ErrUserNotFound = errors.New("user record not found")

// Claims contains the relevant claims from the identity provider's ID token.
type Claims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Identity converts the claims into the profile-sync input. The subject is
// the token identifier joining external identity to the local record.
func (c *Claims) Identity() users.Identity {
	return users.Identity{
		Subject:    c.Sub,
		Name:       c.Name,
		Email:      c.Email,
		PictureURL: c.Picture,
	}
}
