package domain

import "time"

// ApplicationStatus represents the lifecycle state of a university application.
type ApplicationStatus string

const (
	StatusDraft       ApplicationStatus = "draft"
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusRejected    ApplicationStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusDraft:       {StatusSubmitted},
	StatusSubmitted:   {StatusUnderReview},
	StatusUnderReview: {StatusAccepted, StatusRejected},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// KnownStatus reports whether s is one of the defined application statuses.
func KnownStatus(s ApplicationStatus) bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Application tracks a single university application owned by a user.
// Reference is the external identifier handed to clients; Progress is a
// 0-100 completion percentage.
type Application struct {
	ID           string            `json:"id" bson:"_id,omitempty"`
	UserID       string            `json:"user_id" bson:"user_id"`
	Reference    string            `json:"reference" bson:"reference"`
	UniversityID string            `json:"university_id" bson:"university_id"`
	Program      string            `json:"program" bson:"program"`
	Status       ApplicationStatus `json:"status" bson:"status"`
	Progress     int               `json:"progress" bson:"progress"`
	SubmittedAt  *time.Time        `json:"submitted_at,omitempty" bson:"submitted_at,omitempty"`
	CreatedAt    time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" bson:"updated_at"`
}
