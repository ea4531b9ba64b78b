package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/studybridge/apply-platform/internal/core/domain"
	"github.com/studybridge/apply-platform/internal/core/ports"
)

// ProgressCache abstracts the questionnaire progress snapshot store (Redis).
// Cache misses return (nil, nil); the cache is advisory and every failure is
// tolerated with a fallback to the repository.
type ProgressCache interface {
	Get(ctx context.Context, userID string) (*ports.Progress, error)
	Set(ctx context.Context, userID string, progress *ports.Progress) error
	Invalidate(ctx context.Context, userID string) error
}

type profileService struct {
	repo  ports.ProfileRepository
	cache ProgressCache
	log   zerolog.Logger
}

// NewProfileService returns the questionnaire progress tracker. cache may be
// nil, in which case every progress read goes to the repository.
func NewProfileService(repo ports.ProfileRepository, cache ProgressCache, log zerolog.Logger) ports.ProfileService {
	return &profileService{repo: repo, cache: cache, log: log}
}

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func (s *profileService) UpdateProfile(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.repo.Upsert(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.invalidate(ctx, userID)
	return profile, nil
}

// GetProgress reports the step cursor and completed set. A missing profile
// is not an error: the defaults (step 1, nothing completed) are returned so
// a fresh account can enter the wizard.
func (s *profileService) GetProgress(ctx context.Context, userID string) (*ports.Progress, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("progress cache read failed, falling back to store")
		} else if cached != nil {
			return cached, nil
		}
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return &ports.Progress{CurrentStep: domain.FirstStep, CompletedSteps: []int{}}, nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	progress := progressOf(profile)
	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, progress); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("progress cache write failed")
		}
	}
	return progress, nil
}

// SaveStep merges data and moves the cursor to step. The cursor is an
// overwrite: repeated or out-of-order submissions always land on the
// submitted step. The completed set only grows (set union), so resubmitting
// a step is a no-op on it.
func (s *profileService) SaveStep(ctx context.Context, userID string, step int, data ports.ProfileUpdate) (*domain.Profile, error) {
	if !domain.ValidStep(step) {
		return nil, fmt.Errorf("%w: step %d out of range %d..%d", domain.ErrValidation, step, domain.FirstStep, domain.FinalStep)
	}

	profile, err := s.repo.SaveStep(ctx, userID, step, data)
	if err != nil {
		return nil, fmt.Errorf("save step %d: %w", step, err)
	}

	s.invalidate(ctx, userID)
	s.log.Info().Str("user_id", userID).Int("step", step).Msg("questionnaire step saved")
	return profile, nil
}

// Complete force-finishes the wizard: all eight steps are marked completed
// whether or not they were individually submitted.
func (s *profileService) Complete(ctx context.Context, userID string, data ports.ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.repo.Complete(ctx, userID, data)
	if err != nil {
		return nil, fmt.Errorf("complete questionnaire: %w", err)
	}

	s.invalidate(ctx, userID)
	s.log.Info().Str("user_id", userID).Msg("questionnaire completed")
	return profile, nil
}

func (s *profileService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("progress cache invalidation failed")
	}
}

func progressOf(p *domain.Profile) *ports.Progress {
	steps := p.CompletedSteps
	if steps == nil {
		steps = []int{}
	}
	current := p.CurrentStep
	if current == 0 {
		current = domain.FirstStep
	}
	return &ports.Progress{CurrentStep: current, CompletedSteps: steps, Profile: p}
}
