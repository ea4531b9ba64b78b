package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studybridge/apply-platform/internal/core/domain"
	"github.com/studybridge/apply-platform/internal/core/ports"
)

type applicationService struct {
	repo ports.ApplicationRepository
	log  zerolog.Logger
}

// NewApplicationService returns an ApplicationService implementation.
func NewApplicationService(repo ports.ApplicationRepository, log zerolog.Logger) ports.ApplicationService {
	return &applicationService{repo: repo, log: log}
}

// Create opens a draft application for the user.
func (s *applicationService) Create(ctx context.Context, userID string, input ports.CreateApplicationInput) (*domain.Application, error) {
	if input.UniversityID == "" || input.Program == "" {
		return nil, domain.ErrValidation
	}

	now := time.Now().UTC()
	app, err := s.repo.Create(ctx, &domain.Application{
		UserID:       userID,
		Reference:    uuid.NewString(),
		UniversityID: input.UniversityID,
		Program:      input.Program,
		Status:       domain.StatusDraft,
		Progress:     0,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("reference", app.Reference).Msg("application created")
	return app, nil
}

func (s *applicationService) List(ctx context.Context, userID string) ([]*domain.Application, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *applicationService) Get(ctx context.Context, userID, reference string) (*domain.Application, error) {
	return s.repo.FindByReference(ctx, userID, reference)
}

// UpdateStatus validates the state machine transition and persists the new
// status. Submitting stamps submitted_at and completes the progress bar.
func (s *applicationService) UpdateStatus(ctx context.Context, userID, reference string, status domain.ApplicationStatus) (*domain.Application, error) {
	if !domain.KnownStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, status)
	}

	app, err := s.repo.FindByReference(ctx, userID, reference)
	if err != nil {
		return nil, err
	}

	if !app.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, app.Status, status)
	}

	now := time.Now().UTC()
	app.Status = status
	app.UpdatedAt = now
	if status == domain.StatusSubmitted {
		app.SubmittedAt = &now
		app.Progress = 100
	}

	updated, err := s.repo.Update(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}

	s.log.Info().Str("reference", reference).Str("status", string(status)).Msg("application status updated")
	return updated, nil
}
