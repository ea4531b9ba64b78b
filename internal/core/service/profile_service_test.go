package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/studybridge/apply-platform/internal/core/domain"
	"github.com/studybridge/apply-platform/internal/core/ports"
)

// stubProfileRepo mirrors the merge-upsert contract of the Mongo repository:
// nil update fields are left unchanged, SaveStep unions the completed set and
// Complete force-sets the terminal state.
type stubProfileRepo struct {
	profiles map[string]*domain.Profile
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	clone := *p
	clone.CompletedSteps = append([]int(nil), p.CompletedSteps...)
	return &clone
}

func (r *stubProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) CreateEmpty(_ context.Context, userID string) error {
	if _, ok := r.profiles[userID]; ok {
		return nil
	}
	r.profiles[userID] = r.emptyProfile(userID)
	return nil
}

func (r *stubProfileRepo) emptyProfile(userID string) *domain.Profile {
	now := time.Now().UTC()
	return &domain.Profile{
		ID:             "profile_" + userID,
		UserID:         userID,
		CurrentStep:    domain.FirstStep,
		CompletedSteps: []int{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (r *stubProfileRepo) fetchOrCreate(userID string) *domain.Profile {
	p, ok := r.profiles[userID]
	if !ok {
		p = r.emptyProfile(userID)
		r.profiles[userID] = p
	}
	return p
}

func applyUpdate(p *domain.Profile, update ports.ProfileUpdate) {
	if update.Phone != nil {
		p.Phone = *update.Phone
	}
	if update.DateOfBirth != nil {
		p.DateOfBirth = *update.DateOfBirth
	}
	if update.Address != nil {
		p.Address = *update.Address
	}
	if update.Bio != nil {
		p.Bio = *update.Bio
	}
	if update.Nationality != nil {
		p.Nationality = *update.Nationality
	}
	if update.FieldOfStudy != nil {
		p.FieldOfStudy = *update.FieldOfStudy
	}
	if update.StudyLevel != nil {
		p.StudyLevel = *update.StudyLevel
	}
	if update.EnglishProficiency != nil {
		p.EnglishProficiency = update.EnglishProficiency
	}
	if update.AvailableFunds != nil {
		p.AvailableFunds = update.AvailableFunds
	}
	if update.VisaRefusalHistory != nil {
		p.VisaRefusalHistory = update.VisaRefusalHistory
	}
	if update.IntendedStartDate != nil {
		p.IntendedStartDate = update.IntendedStartDate
	}
	if update.Education != nil {
		p.Education = update.Education
	}
	if update.StandardizedTests != nil {
		p.StandardizedTests = update.StandardizedTests
	}
	p.UpdatedAt = time.Now().UTC()
}

func (r *stubProfileRepo) Upsert(_ context.Context, userID string, update ports.ProfileUpdate) (*domain.Profile, error) {
	p := r.fetchOrCreate(userID)
	applyUpdate(p, update)
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) SaveStep(_ context.Context, userID string, step int, update ports.ProfileUpdate) (*domain.Profile, error) {
	p := r.fetchOrCreate(userID)
	applyUpdate(p, update)
	p.CurrentStep = step
	found := false
	for _, s := range p.CompletedSteps {
		if s == step {
			found = true
			break
		}
	}
	if !found {
		p.CompletedSteps = append(p.CompletedSteps, step)
	}
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) Complete(_ context.Context, userID string, update ports.ProfileUpdate) (*domain.Profile, error) {
	p := r.fetchOrCreate(userID)
	applyUpdate(p, update)
	p.CurrentStep = domain.FinalStep
	p.CompletedSteps = domain.AllSteps()
	return cloneProfile(p), nil
}

// stubProgressCache records calls so tests can assert invalidation.
type stubProgressCache struct {
	entries       map[string]*ports.Progress
	invalidations int
}

func newStubProgressCache() *stubProgressCache {
	return &stubProgressCache{entries: make(map[string]*ports.Progress)}
}

func (c *stubProgressCache) Get(_ context.Context, userID string) (*ports.Progress, error) {
	return c.entries[userID], nil
}

func (c *stubProgressCache) Set(_ context.Context, userID string, progress *ports.Progress) error {
	c.entries[userID] = progress
	return nil
}

func (c *stubProgressCache) Invalidate(_ context.Context, userID string) error {
	delete(c.entries, userID)
	c.invalidations++
	return nil
}

func TestProfileService_GetProgress_Defaults(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo(), nil, zerolog.Nop())

	progress, err := svc.GetProgress(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("GetProgress returned error: %v", err)
	}
	if progress.CurrentStep != domain.FirstStep {
		t.Fatalf("expected default step %d, got %d", domain.FirstStep, progress.CurrentStep)
	}
	if len(progress.CompletedSteps) != 0 {
		t.Fatalf("expected no completed steps, got %v", progress.CompletedSteps)
	}
}

func TestProfileService_SaveStep_Idempotent(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo(), nil, zerolog.Nop())

	field := "computer science"
	if _, err := svc.SaveStep(context.Background(), "user_1", 3, ports.ProfileUpdate{FieldOfStudy: &field}); err != nil {
		t.Fatalf("first SaveStep returned error: %v", err)
	}
	profile, err := svc.SaveStep(context.Background(), "user_1", 3, ports.ProfileUpdate{})
	if err != nil {
		t.Fatalf("second SaveStep returned error: %v", err)
	}
	if profile.CurrentStep != 3 {
		t.Fatalf("expected current step 3, got %d", profile.CurrentStep)
	}
	if len(profile.CompletedSteps) != 1 || profile.CompletedSteps[0] != 3 {
		t.Fatalf("expected completed steps [3], got %v", profile.CompletedSteps)
	}
	if profile.FieldOfStudy != field {
		t.Fatalf("expected field of study kept, got %q", profile.FieldOfStudy)
	}
}

func TestProfileService_SaveStep_CursorOverwrites(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo(), nil, zerolog.Nop())

	for _, step := range []int{5, 2} {
		if _, err := svc.SaveStep(context.Background(), "user_1", step, ports.ProfileUpdate{}); err != nil {
			t.Fatalf("SaveStep(%d) returned error: %v", step, err)
		}
	}
	progress, err := svc.GetProgress(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("GetProgress returned error: %v", err)
	}
	// The cursor follows the latest submission even when it moves backwards;
	// the completed set keeps both.
	if progress.CurrentStep != 2 {
		t.Fatalf("expected current step 2, got %d", progress.CurrentStep)
	}
	if len(progress.CompletedSteps) != 2 {
		t.Fatalf("expected 2 completed steps, got %v", progress.CompletedSteps)
	}
}

func TestProfileService_SaveStep_OutOfRange(t *testing.T) {
	repo := newStubProfileRepo()
	svc := NewProfileService(repo, nil, zerolog.Nop())

	for _, step := range []int{0, 9, -1} {
		if _, err := svc.SaveStep(context.Background(), "user_1", step, ports.ProfileUpdate{}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for step %d, got %v", step, err)
		}
	}
	if _, ok := repo.profiles["user_1"]; ok {
		t.Fatalf("expected rejected steps to leave no profile behind")
	}
}

func TestProfileService_Complete_ForceSetsAllSteps(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo(), nil, zerolog.Nop())

	if _, err := svc.SaveStep(context.Background(), "user_1", 2, ports.ProfileUpdate{}); err != nil {
		t.Fatalf("SaveStep returned error: %v", err)
	}

	bio := "done"
	profile, err := svc.Complete(context.Background(), "user_1", ports.ProfileUpdate{Bio: &bio})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if profile.CurrentStep != domain.FinalStep {
		t.Fatalf("expected current step %d, got %d", domain.FinalStep, profile.CurrentStep)
	}
	if len(profile.CompletedSteps) != domain.FinalStep {
		t.Fatalf("expected all %d steps completed, got %v", domain.FinalStep, profile.CompletedSteps)
	}
	if profile.Bio != bio {
		t.Fatalf("expected bio merged, got %q", profile.Bio)
	}
}

func TestProfileService_ProgressCache(t *testing.T) {
	repo := newStubProfileRepo()
	cache := newStubProgressCache()
	svc := NewProfileService(repo, cache, zerolog.Nop())

	if _, err := svc.SaveStep(context.Background(), "user_1", 4, ports.ProfileUpdate{}); err != nil {
		t.Fatalf("SaveStep returned error: %v", err)
	}
	if cache.invalidations == 0 {
		t.Fatalf("expected write to invalidate the cache")
	}

	// First read populates the cache, second read is served from it.
	if _, err := svc.GetProgress(context.Background(), "user_1"); err != nil {
		t.Fatalf("GetProgress returned error: %v", err)
	}
	if _, ok := cache.entries["user_1"]; !ok {
		t.Fatalf("expected progress to be cached after read")
	}

	delete(repo.profiles, "user_1")
	progress, err := svc.GetProgress(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("GetProgress returned error: %v", err)
	}
	if progress.CurrentStep != 4 {
		t.Fatalf("expected cached step 4, got %d", progress.CurrentStep)
	}
}

func TestProfileService_UpdateProfile_PartialMerge(t *testing.T) {
	svc := NewProfileService(newStubProfileRepo(), nil, zerolog.Nop())

	phone := "+14155550123"
	if _, err := svc.UpdateProfile(context.Background(), "user_1", ports.ProfileUpdate{Phone: &phone}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	nationality := "MX"
	profile, err := svc.UpdateProfile(context.Background(), "user_1", ports.ProfileUpdate{Nationality: &nationality})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if profile.Phone != phone {
		t.Fatalf("expected phone preserved across partial update, got %q", profile.Phone)
	}
	if profile.Nationality != nationality {
		t.Fatalf("expected nationality set, got %q", profile.Nationality)
	}
}
