package ports

import (
	"context"

	"github.com/clubcore/members-system/internal/core/domain"
)

// AuthResult is returned by the transitions that establish a session.
type AuthResult struct {
	Token    string
	Username string
	Role     string
}

// AuthService is the authentication state machine consumed by the route
// layer. All errors are typed domain errors; the service never renders
// output.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Authorize(ctx context.Context, token, requiredRole string) (*domain.Session, error)
	Promote(ctx context.Context, actor, targetID string) error
	Demote(ctx context.Context, actor, targetID string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
