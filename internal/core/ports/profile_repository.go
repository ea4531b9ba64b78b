package ports

import (
	"context"

	"github.com/studybridge/apply-platform/internal/core/domain"
)

// ProfileRepository defines persistence for profile documents. All write
// operations are single-document atomic upserts: each call is one
// conditional update at the storage layer, never a read-modify-write split.
// Concurrent writes for the same user therefore race with last-write-wins,
// which is the accepted consistency policy.
type ProfileRepository interface {
	// FindByUserID returns domain.ErrProfileNotFound when no document exists.
	FindByUserID(ctx context.Context, userID string) (*domain.Profile, error)
	// CreateEmpty inserts the default document (current_step=1, no completed
	// steps) unless one already exists.
	CreateEmpty(ctx context.Context, userID string) error
	// Upsert merges the non-nil update fields and returns the new document.
	Upsert(ctx context.Context, userID string, update ProfileUpdate) (*domain.Profile, error)
	// SaveStep merges update, sets current_step=step and unions step into
	// completed_steps in a single update.
	SaveStep(ctx context.Context, userID string, step int, update ProfileUpdate) (*domain.Profile, error)
	// Complete merges update and force-sets current_step=8 and
	// completed_steps={1..8}.
	Complete(ctx context.Context, userID string, update ProfileUpdate) (*domain.Profile, error)
}
