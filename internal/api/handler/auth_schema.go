package handler

import (
	"time"

	"github.com/studybridge/apply-platform/internal/core/domain"
)

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// updateAccountRequest is the typed partial update for PUT /auth/profile:
// identity name fields plus the profile fields, flat, as the client sends
// them. Unknown keys are rejected by the strict binder.
type updateAccountRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	profileUpdateRequest
}

// userResponse is the public view of a user (no password hash).
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

type authResponse struct {
	Success bool            `json:"success"`
	Token   string          `json:"token"`
	User    userResponse    `json:"user"`
	Profile *domain.Profile `json:"profile,omitempty"`
}

type accountResponse struct {
	Success bool            `json:"success"`
	User    userResponse    `json:"user"`
	Profile *domain.Profile `json:"profile,omitempty"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
