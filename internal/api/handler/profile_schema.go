package handler

import (
	"time"

	"github.com/studybridge/apply-platform/internal/core/domain"
	"github.com/studybridge/apply-platform/internal/core/ports"
)

// profileUpdateRequest enumerates every updatable profile field. Nil means
// "leave unchanged". Bodies carrying keys outside this set fail the strict
// bind with a 400.
type profileUpdateRequest struct {
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Address     *string `json:"address,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	Nationality *string `json:"nationality,omitempty"`

	FieldOfStudy       *string                    `json:"field_of_study,omitempty"`
	StudyLevel         *string                    `json:"study_level,omitempty"`
	EnglishProficiency *domain.EnglishProficiency `json:"english_proficiency,omitempty"`
	AvailableFunds     *float64                   `json:"available_funds,omitempty"`
	VisaRefusalHistory *domain.VisaRefusalHistory `json:"visa_refusal_history,omitempty"`
	IntendedStartDate  *time.Time                 `json:"intended_start_date,omitempty"`
	Education          *domain.Education          `json:"education,omitempty"`
	StandardizedTests  []string                   `json:"standardized_tests,omitempty"`
}

func (r profileUpdateRequest) toUpdate() ports.ProfileUpdate {
	return ports.ProfileUpdate{
		Phone:              r.Phone,
		DateOfBirth:        r.DateOfBirth,
		Address:            r.Address,
		Bio:                r.Bio,
		Nationality:        r.Nationality,
		FieldOfStudy:       r.FieldOfStudy,
		StudyLevel:         r.StudyLevel,
		EnglishProficiency: r.EnglishProficiency,
		AvailableFunds:     r.AvailableFunds,
		VisaRefusalHistory: r.VisaRefusalHistory,
		IntendedStartDate:  r.IntendedStartDate,
		Education:          r.Education,
		StandardizedTests:  r.StandardizedTests,
	}
}

type saveStepRequest struct {
	Step int                  `json:"step"`
	Data profileUpdateRequest `json:"data"`
}

type profileResponse struct {
	Success bool            `json:"success"`
	Profile *domain.Profile `json:"profile"`
}

type progressResponse struct {
	Success        bool            `json:"success"`
	CurrentStep    int             `json:"current_step"`
	CompletedSteps []int           `json:"completed_steps"`
	Profile        *domain.Profile `json:"profile,omitempty"`
}

type stepResponse struct {
	Success     bool            `json:"success"`
	CurrentStep int             `json:"current_step"`
	Profile     *domain.Profile `json:"profile"`
}

type completeResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Profile *domain.Profile `json:"profile"`
}
