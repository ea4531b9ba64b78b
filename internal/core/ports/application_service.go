package ports

import (
	"context"

	"github.com/studybridge/apply-platform/internal/core/domain"
)

// CreateApplicationInput carries the data needed to open a draft application.
type CreateApplicationInput struct {
	UniversityID string
	Program      string
}

// ApplicationService defines use-case operations for university applications.
// Every operation is scoped to the owning user: a reference belonging to a
// different user behaves as not found.
type ApplicationService interface {
	Create(ctx context.Context, userID string, input CreateApplicationInput) (*domain.Application, error)
	List(ctx context.Context, userID string) ([]*domain.Application, error)
	Get(ctx context.Context, userID, reference string) (*domain.Application, error)
	// UpdateStatus enforces the draft → submitted → under_review →
	// accepted/rejected machine; invalid moves fail with
	// domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, userID, reference string, status domain.ApplicationStatus) (*domain.Application, error)
}
