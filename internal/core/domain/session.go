package domain

import (
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrUnauthenticated = errors.New("authentication required")
var ErrForbidden = errors.New("access forbidden")
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// Session is the server-side session state referenced by the cookie token.
// Username and Role are denormalized copies of the owning User taken at
// login time; a later role change does not rewrite live sessions.
type Session struct {
	Token         string    `json:"-"`
	Authenticated bool      `json:"authenticated"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether the session TTL has elapsed as of now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
