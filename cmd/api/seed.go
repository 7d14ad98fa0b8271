package main

import (
	"time"

	"github.com/google/uuid"

	"launchpad/internal/users"
)

// seedLocalUsers returns demo profiles for the in-memory store so the API is
// explorable without an identity provider configured.
func seedLocalUsers() []users.User {
	now := time.Now().UTC()

	return []users.User{
		{
			ID:              uuid.New(),
			TokenIdentifier: "dev|ada",
			Name:            "Ada Lovelace",
			Email:           "ada@example.com",
			ImageURL:        "https://avatars.example.com/ada.png",
			Preferences:     users.Preferences{Theme: "dark", Language: "en"},
			LastSeenAt:      now.Add(-2 * time.Hour),
			CreatedAt:       now.Add(-30 * 24 * time.Hour),
			UpdatedAt:       now.Add(-2 * time.Hour),
		},
		{
			ID:              uuid.New(),
			TokenIdentifier: "dev|grace",
			Name:            "Grace Hopper",
			Email:           "grace@example.com",
			Preferences:     users.Preferences{Theme: "system"},
			LastSeenAt:      now.Add(-15 * time.Minute),
			CreatedAt:       now.Add(-7 * 24 * time.Hour),
			UpdatedAt:       now.Add(-15 * time.Minute),
		},
		{
			ID:              uuid.New(),
			TokenIdentifier: "dev|anon",
			Name:            users.AnonymousName,
			LastSeenAt:      now,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}
}
