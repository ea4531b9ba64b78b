package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/studybridge/apply-platform/internal/api/metrics"
	"github.com/studybridge/apply-platform/internal/core/domain"
	"github.com/studybridge/apply-platform/internal/core/ports"
)

// defaultTokenTTL is the credential lifetime. Tokens are stateless: there is
// no server-side revocation, so a credential stays valid until this expiry
// even after a client-side logout.
const defaultTokenTTL = 7 * 24 * time.Hour

// verifyOutcome tags why a token verification failed. The public contract
// stays binary (valid/invalid); the tag feeds metrics and debug logs only.
type verifyOutcome string

const (
	verifyOK           verifyOutcome = "ok"
	verifyMalformed    verifyOutcome = "malformed"
	verifyBadSignature verifyOutcome = "bad_signature"
	verifyExpired      verifyOutcome = "expired"
)

// AuthService implements registration, login and credential handling.
type AuthService struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	cache    ProgressCache
	secret   []byte
	tokenTTL time.Duration
	log      zerolog.Logger
}

// NewAuthService builds the session manager. An empty signing secret is a
// configuration error: the constructor refuses it rather than minting
// unsigned credentials later. cache may be nil; when present it is
// invalidated whenever this service writes profile fields.
func NewAuthService(users ports.UserRepository, profiles ports.ProfileRepository, cache ProgressCache, jwtSecret string, log zerolog.Logger) (*AuthService, error) {
	if jwtSecret == "" {
		return nil, domain.ErrMissingSecret
	}
	return &AuthService{
		users:    users,
		profiles: profiles,
		cache:    cache,
		secret:   []byte(jwtSecret),
		tokenTTL: defaultTokenTTL,
		log:      log,
	}, nil
}

// Register creates a user, an empty profile, and a fresh credential.
// The two writes are independent: when the profile insert fails the identity
// still exists, which is recoverable because all profile writes upsert.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if input.Email == "" || input.Password == "" || input.FirstName == "" || input.LastName == "" {
		return nil, domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.profiles.CreateEmpty(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("empty profile creation failed, deferring to lazy upsert")
	}

	token, err := s.IssueCredential(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return &ports.AuthResult{User: user, Token: token}, nil
}

// Login verifies the password and mints a fresh credential. Unknown email
// and wrong password both surface as domain.ErrInvalidCredentials so the
// response never discloses which check failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrValidation
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.IssueCredential(user.ID)
	if err != nil {
		return nil, err
	}

	// The profile may legitimately not exist yet.
	profile, err := s.profiles.FindByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.AuthResult{User: user, Profile: profile, Token: token}, nil
}

// GetAccount returns the identity plus its profile (nil when absent).
func (s *AuthService) GetAccount(ctx context.Context, userID string) (*domain.User, *domain.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, nil, err
	}
	return user, profile, nil
}

// UpdateAccount applies name changes to the user record and the profile
// fields to the profile document. The progress snapshot cache is dropped
// afterwards so the next progress read sees this write.
func (s *AuthService) UpdateAccount(ctx context.Context, userID string, update ports.AccountUpdate) (*domain.User, *domain.Profile, error) {
	user, err := s.users.UpdateName(ctx, userID, update.FirstName, update.LastName)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.profiles.Upsert(ctx, userID, update.Profile)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("progress cache invalidation failed")
		}
	}
	return user, profile, nil
}

// IssueCredential mints an HS256 token carrying the user id and expiry.
func (s *AuthService) IssueCredential(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyCredential resolves a token to the embedded user id. The contract is
// binary: any failure reports ok=false. Internally the failure is classified
// (malformed / bad signature / expired) for the verification counter and a
// debug log line.
func (s *AuthService) VerifyCredential(token string) (string, bool) {
	userID, outcome := s.classifyToken(token)
	metrics.TokenVerificationsTotal.WithLabelValues(string(outcome)).Inc()
	if outcome != verifyOK {
		s.log.Debug().Str("outcome", string(outcome)).Msg("credential rejected")
		return "", false
	}
	return userID, true
}

func (s *AuthService) classifyToken(token string) (string, verifyOutcome) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", verifyExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", verifyBadSignature
	case err != nil, !tkn.Valid:
		return "", verifyMalformed
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", verifyMalformed
	}
	return sub, verifyOK
}
