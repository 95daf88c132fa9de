package session

import "time"

// Session binds one opaque token to one user with an expiry
type Session struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// User carries the public attributes of the session owner.
// The password hash is never selected into this struct.
type User struct {
	ID            int       `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Auth is the result of resolving a valid session token
type Auth struct {
	User    User    `json:"user"`
	Session Session `json:"session"`
}
