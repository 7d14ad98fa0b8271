package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgresRepository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByToken looks up a user by token identifier.
func (r *PostgresRepository) FindByToken(ctx context.Context, tokenIdentifier string) (*User, error) {
	const query = `
		SELECT id, token_identifier, name, email, image_url, pref_theme, pref_language, last_seen_at, created_at, updated_at
		FROM users
		WHERE token_identifier = $1
	`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, tokenIdentifier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return row.toUser(), nil
}

// FindByID looks up a user by primary key.
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	const query = `
		SELECT id, token_identifier, name, email, image_url, pref_theme, pref_language, last_seen_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return row.toUser(), nil
}

// Create inserts a new user record. A collision on the unique token
// identifier index is reported as ErrDuplicateToken so the caller can fall
// back to the patch path.
func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	const query = `
		INSERT INTO users (id, token_identifier, name, email, image_url, pref_theme, pref_language, last_seen_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.TokenIdentifier,
		user.Name,
		user.Email,
		user.ImageURL,
		user.Preferences.Theme,
		user.Preferences.Language,
		user.LastSeenAt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return User{}, ErrDuplicateToken
		}
		return User{}, err
	}

	return user, nil
}

// SyncProfile overwrites the sign-in refreshed fields.
func (r *PostgresRepository) SyncProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) error {
	const query = `
		UPDATE users
		SET name = $2, email = $3, image_url = $4, last_seen_at = $5, updated_at = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, patch.Name, patch.Email, patch.ImageURL, patch.LastSeenAt)
	return err
}

// UpdatePreferences replaces the stored preferences.
func (r *PostgresRepository) UpdatePreferences(ctx context.Context, id uuid.UUID, prefs Preferences) error {
	const query = `
		UPDATE users
		SET pref_theme = $2, pref_language = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, prefs.Theme, prefs.Language, time.Now())
	return err
}

// userRow is a database row representation of User.
type userRow struct {
	ID              uuid.UUID `db:"id"`
	TokenIdentifier string    `db:"token_identifier"`
	Name            string    `db:"name"`
	Email           string    `db:"email"`
	ImageURL        string    `db:"image_url"`
	PrefTheme       string    `db:"pref_theme"`
	PrefLanguage    string    `db:"pref_language"`
	LastSeenAt      time.Time `db:"last_seen_at"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *userRow) toUser() *User {
	return &User{
		ID:              r.ID,
		TokenIdentifier: r.TokenIdentifier,
		Name:            r.Name,
		Email:           r.Email,
		ImageURL:        r.ImageURL,
		Preferences: Preferences{
			Theme:    r.PrefTheme,
			Language: r.PrefLanguage,
		},
		LastSeenAt: r.LastSeenAt,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
