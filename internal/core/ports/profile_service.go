package ports

import (
	"context"
	"time"

	"github.com/studybridge/apply-platform/internal/core/domain"
)

// ProfileUpdate is the typed partial update applied to a profile document.
// Nil pointers (and a nil StandardizedTests slice) mean "leave unchanged";
// unknown fields are rejected at the transport layer, not silently merged.
type ProfileUpdate struct {
	Phone       *string
	DateOfBirth *string
	Address     *string
	Bio         *string
	Nationality *string

	FieldOfStudy       *string
	StudyLevel         *string
	EnglishProficiency *domain.EnglishProficiency
	AvailableFunds     *float64
	VisaRefusalHistory *domain.VisaRefusalHistory
	IntendedStartDate  *time.Time
	Education          *domain.Education
	StandardizedTests  []string
}

// Progress is the questionnaire progress view returned by GetProgress.
// Profile is nil when no document exists yet.
type Progress struct {
	CurrentStep    int
	CompletedSteps []int
	Profile        *domain.Profile
}

// ProfileService implements the questionnaire progress tracker and the
// unrestricted profile merge-upsert used for post-onboarding edits.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.Profile, error)
	// GetProgress never fails for a missing profile: it reports the
	// defaults current_step=1, completed_steps=[] instead.
	GetProgress(ctx context.Context, userID string) (*Progress, error)
	// SaveStep validates step, merges data, moves the cursor to step
	// (overwrite, not max) and adds step to the completed set (idempotent).
	SaveStep(ctx context.Context, userID string, step int, data ProfileUpdate) (*domain.Profile, error)
	// Complete is the terminal transition: merges data and force-sets
	// current_step=8 and completed_steps={1..8} regardless of prior state.
	Complete(ctx context.Context, userID string, data ProfileUpdate) (*domain.Profile, error)
}
