package syncsdk

import "time"

// UserProfile mirrors the server's user record representation.
type UserProfile struct {
	ID              string      `json:"id"`
	TokenIdentifier string      `json:"tokenIdentifier"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	ImageURL        string      `json:"imageUrl,omitempty"`
	Preferences     Preferences `json:"preferences"`
	LastSeenAt      time.Time   `json:"lastSeenAt"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// Preferences holds the per-user application settings mirrored to the server.
type Preferences struct {
	Theme    string `json:"theme,omitempty"`
	Language string `json:"language,omitempty"`
}

// ProfileEvent is one delivery from the profile subscription. Err is set on
// the final event when the stream terminates abnormally.
type ProfileEvent struct {
	Profile *UserProfile
	Err     error
}
