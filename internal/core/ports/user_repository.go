package ports

import (
	"context"

	"github.com/clubcore/members-system/internal/core/domain"
)

// UserRepository defines the interface for user record persistence.
// Email uniqueness is the store's responsibility: concurrent Creates with
// the same email must yield exactly one record and one ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
	SetRole(ctx context.Context, id, role string) error
}
