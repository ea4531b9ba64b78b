package domain

import "errors"

var (
	// ErrValidation covers missing or out-of-range input.
	ErrValidation = errors.New("invalid input")
	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned uniformly for unknown email and
	// wrong password so the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when a bearer token is missing or invalid.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMissingSecret is returned when the token signing secret is absent.
	// Fatal at startup: the server must never issue unsigned credentials.
	ErrMissingSecret = errors.New("token signing secret is not configured")

	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidTransition   = errors.New("invalid application status transition")
)
