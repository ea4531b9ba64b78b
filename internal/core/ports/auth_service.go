package ports

import (
	"context"

	"github.com/studybridge/apply-platform/internal/core/domain"
)

// RegisterInput carries all data needed to create a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthResult is returned by Register and Login: the resolved user, the
// freshly minted bearer token, and the user's profile when one exists
// (always nil right after registration responses that skip the lookup).
type AuthResult struct {
	User    *domain.User
	Profile *domain.Profile
	Token   string
}

// AccountUpdate is the typed partial update accepted by UpdateAccount.
// Nil pointers mean "leave unchanged".
type AccountUpdate struct {
	FirstName *string
	LastName  *string
	Profile   ProfileUpdate
}

// AuthService implements the session manager: account creation, login,
// credential issuance/verification, and the combined account view.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetAccount(ctx context.Context, userID string) (*domain.User, *domain.Profile, error)
	UpdateAccount(ctx context.Context, userID string, update AccountUpdate) (*domain.User, *domain.Profile, error)

	TokenVerifier
}

// TokenVerifier resolves a bearer token to a user identity. The contract is
// deliberately binary: any failure (malformed, tampered, expired) reports
// ok=false and callers treat it uniformly as unauthenticated.
type TokenVerifier interface {
	VerifyCredential(token string) (userID string, ok bool)
}
