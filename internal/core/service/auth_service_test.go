package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/studybridge/apply-platform/internal/core/domain"
	"github.com/studybridge/apply-platform/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateName(_ context.Context, id string, firstName, lastName *string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	return cloneUser(u), nil
}

func newTestAuthService(t *testing.T) (*AuthService, *stubUserRepo, *stubProfileRepo) {
	t.Helper()
	users := newStubUserRepo()
	profiles := newStubProfileRepo()
	svc, err := NewAuthService(users, profiles, nil, "secret", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAuthService returned error: %v", err)
	}
	return svc, users, profiles
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{
		Email:     "alice@example.com",
		Password:  "pass123",
		FirstName: "Alice",
		LastName:  "Nguyen",
	}
}

func TestNewAuthService_MissingSecret(t *testing.T) {
	if _, err := NewAuthService(newStubUserRepo(), newStubProfileRepo(), nil, "", zerolog.Nop()); !errors.Is(err, domain.ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, _, profiles := newTestAuthService(t)

	result, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.User == nil || result.User.ID == "" {
		t.Fatalf("expected user with id, got %+v", result.User)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.User.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if _, ok := profiles.profiles[result.User.ID]; !ok {
		t.Fatalf("expected empty profile to be created")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	input := registerInput()
	input.Email = ""
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registerInput()); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_RegisterVerify_RoundTrip(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	result, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	userID, ok := svc.VerifyCredential(result.Token)
	if !ok {
		t.Fatalf("expected token to verify")
	}
	if userID != result.User.ID {
		t.Fatalf("expected user id %s, got %s", result.User.ID, userID)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if result.User == nil || result.User.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", result.User)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != result.User.ID {
		t.Fatalf("expected sub %s, got %v", result.User.ID, claims["sub"])
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown email report the same error.
	if _, err := svc.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_VerifyCredential_Expired(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	svc.tokenTTL = -time.Minute

	result, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, ok := svc.VerifyCredential(result.Token); ok {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestAuthService_VerifyCredential_WrongSecret(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	other, err := NewAuthService(newStubUserRepo(), newStubProfileRepo(), nil, "other-secret", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAuthService returned error: %v", err)
	}
	token, err := other.IssueCredential("user_1")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, ok := svc.VerifyCredential(token); ok {
		t.Fatalf("expected foreign-signed token to be rejected")
	}
}

func TestAuthService_VerifyCredential_Malformed(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, ok := svc.VerifyCredential(token); ok {
			t.Fatalf("expected %q to be rejected", token)
		}
	}
}

func TestAuthService_UpdateAccount_InvalidatesProgressCache(t *testing.T) {
	users := newStubUserRepo()
	profiles := newStubProfileRepo()
	cache := newStubProgressCache()

	authSvc, err := NewAuthService(users, profiles, cache, "secret", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAuthService returned error: %v", err)
	}
	profileSvc := NewProfileService(profiles, cache, zerolog.Nop())
	ctx := context.Background()

	result, err := authSvc.Register(ctx, registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Warm the progress cache, then write profile fields via the account path.
	if _, err := profileSvc.GetProgress(ctx, result.User.ID); err != nil {
		t.Fatalf("GetProgress returned error: %v", err)
	}
	if _, ok := cache.entries[result.User.ID]; !ok {
		t.Fatalf("expected progress to be cached after read")
	}

	bio := "new bio"
	if _, _, err := authSvc.UpdateAccount(ctx, result.User.ID, ports.AccountUpdate{
		Profile: ports.ProfileUpdate{Bio: &bio},
	}); err != nil {
		t.Fatalf("UpdateAccount returned error: %v", err)
	}

	// The next progress read must see the account write, not the snapshot.
	progress, err := profileSvc.GetProgress(ctx, result.User.ID)
	if err != nil {
		t.Fatalf("GetProgress returned error: %v", err)
	}
	if progress.Profile == nil || progress.Profile.Bio != bio {
		t.Fatalf("progress served stale profile after account update: %+v", progress.Profile)
	}
}

func TestAuthService_UpdateAccount(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	result, err := svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	first := "Alicia"
	phone := "+525512345678"
	user, profile, err := svc.UpdateAccount(context.Background(), result.User.ID, ports.AccountUpdate{
		FirstName: &first,
		Profile:   ports.ProfileUpdate{Phone: &phone},
	})
	if err != nil {
		t.Fatalf("UpdateAccount returned error: %v", err)
	}
	if user.FirstName != "Alicia" {
		t.Fatalf("expected first name updated, got %s", user.FirstName)
	}
	if user.LastName != "Nguyen" {
		t.Fatalf("expected last name untouched, got %s", user.LastName)
	}
	if profile.Phone != phone {
		t.Fatalf("expected phone updated, got %q", profile.Phone)
	}
}
