// Package auth implements account management for the tracker: registration
// and login with bcrypt-hashed credentials, and the email verification flow
// backing the users.email_verified flag.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"diatrack/internal/database"
	"diatrack/internal/session"
)

var (
	// ErrEmailExists is returned when the email is already registered
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidCredentials is returned for a wrong email or password
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound is returned when a user does not exist
	ErrUserNotFound = errors.New("user not found")
)

// Service defines the account management interface
type Service interface {
	Register(ctx context.Context, name, email, password string) (*session.User, error)
	Login(ctx context.Context, email, password string) (*session.User, error)
	GetUserByID(ctx context.Context, userID int) (*session.User, error)
	MarkEmailVerified(ctx context.Context, userID int) error
}

type service struct {
	db database.Service
}

// NewService creates a new account service
func NewService(db database.Service) Service {
	return &service{db: db}
}

// Register creates a user with a hashed password. Emails are lowercased so
// uniqueness is case-insensitive.
func (s *service) Register(ctx context.Context, name, email, password string) (*session.User, error) {
	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, email_verified, created_at, updated_at
	`

	var user session.User
	err = s.db.QueryRow(ctx, query, normalizeEmail(email), name, passwordHash).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Login verifies the password for the given email and returns the user.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, email, password string) (*session.User, error) {
	query := `
		SELECT id, email, name, email_verified, created_at, updated_at, password_hash
		FROM users
		WHERE email = $1
	`

	var user session.User
	var passwordHash string
	err := s.db.QueryRow(ctx, query, normalizeEmail(email)).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
		&passwordHash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(password, passwordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID retrieves a user's public attributes
func (s *service) GetUserByID(ctx context.Context, userID int) (*session.User, error) {
	query := `
		SELECT id, email, name, email_verified, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user session.User
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// MarkEmailVerified sets the email_verified flag for the user
func (s *service) MarkEmailVerified(ctx context.Context, userID int) error {
	query := `UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`

	tag, err := s.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
