package ports

import (
	"context"

	"github.com/studybridge/apply-platform/internal/core/domain"
)

// UserRepository defines persistence for user identities.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrEmailTaken when the email
	// is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateName applies the non-nil name fields and returns the updated user.
	UpdateName(ctx context.Context, id string, firstName, lastName *string) (*domain.User, error)
}
