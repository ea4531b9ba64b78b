package ports

import (
	"context"

	"github.com/studybridge/apply-platform/internal/core/domain"
)

// ApplicationRepository defines persistence for application documents.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) (*domain.Application, error)
	// FindByReference is always scoped by userID; a foreign reference yields
	// domain.ErrApplicationNotFound.
	FindByReference(ctx context.Context, userID, reference string) (*domain.Application, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Application, error)
	// Update replaces the mutable fields (status, progress, submitted_at,
	// updated_at) of the referenced document.
	Update(ctx context.Context, app *domain.Application) (*domain.Application, error)
}
