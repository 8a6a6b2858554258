package ports

import (
	"context"

	"github.com/clubcore/members-system/internal/core/domain"
)

// SessionStore persists server-side sessions keyed by an opaque token.
// Implementations encrypt the payload at rest and enforce the TTL: an
// expired token must read as absent.
type SessionStore interface {
	// Create persists the session and returns its freshly generated token.
	Create(ctx context.Context, session domain.Session) (string, error)
	// Load returns nil (not an error) when the token is unknown or expired.
	Load(ctx context.Context, token string) (*domain.Session, error)
	// Touch resets the TTL countdown ("resave" refresh-on-access policy).
	Touch(ctx context.Context, token string) error
	// Destroy removes the session. Destroying an absent token is not an error.
	Destroy(ctx context.Context, token string) error
}
