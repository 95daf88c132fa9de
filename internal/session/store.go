// Package session implements server-side sessions for the tracker: opaque
// token generation, a Postgres-backed session store with a fixed TTL, and the
// resolver that turns a presented cookie into an authenticated user.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"diatrack/internal/database"
)

const (
	// TTL is the fixed session validity window from creation
	TTL = 30 * 24 * time.Hour
)

// ErrNoSession is returned when a token is absent, unknown or expired.
// Expired-but-present rows are treated identically to absent ones.
var ErrNoSession = errors.New("no valid session")

// Store defines the interface for session persistence
type Store interface {
	Create(ctx context.Context, userID int) (string, error)
	Find(ctx context.Context, token string) (*Auth, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type store struct {
	db database.Service
}

// NewStore creates a Postgres-backed session store
func NewStore(db database.Service) Store {
	return &store{db: db}
}

// Create generates a token, persists a session row with expiry now+TTL and
// returns the token.
func (s *store) Create(ctx context.Context, userID int) (string, error) {
	token := GenerateToken()
	expiresAt := time.Now().Add(TTL)

	query := `
		INSERT INTO sessions (user_id, session_token, expires_at)
		VALUES ($1, $2, $3)
	`

	if _, err := s.db.Exec(ctx, query, userID, token, expiresAt); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// Find joins the session to its owning user and filters out expired rows.
// Expired rows are not deleted here; the janitor handles purging.
func (s *store) Find(ctx context.Context, token string) (*Auth, error) {
	query := `
		SELECT u.id, u.email, u.name, u.email_verified, u.created_at, u.updated_at,
		       s.id, s.user_id, s.session_token, s.expires_at, s.created_at
		FROM sessions s
		INNER JOIN users u ON u.id = s.user_id
		WHERE s.session_token = $1 AND s.expires_at > NOW()
	`

	var auth Auth
	err := s.db.QueryRow(ctx, query, token).Scan(
		&auth.User.ID,
		&auth.User.Email,
		&auth.User.Name,
		&auth.User.EmailVerified,
		&auth.User.CreatedAt,
		&auth.User.UpdatedAt,
		&auth.Session.ID,
		&auth.Session.UserID,
		&auth.Session.Token,
		&auth.Session.ExpiresAt,
		&auth.Session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &auth, nil
}

// Delete removes the session matching the token. Deleting a token that does
// not exist is a no-op, so logout is idempotent.
func (s *store) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE session_token = $1`

	if _, err := s.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteExpired purges rows whose expiry has passed and returns the number of
// rows removed. Validity checks never depend on this running.
func (s *store) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= NOW()`

	tag, err := s.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
