package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated browser session.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
	UserAgent string
	IPAddress string
}

// SessionRepository defines the interface for session persistence. Tokens
// are stored hashed; the raw token never touches the database.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session, tokenHash string) error
	FindSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
}
