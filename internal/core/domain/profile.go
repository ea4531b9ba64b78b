package domain

import "time"

// Questionnaire step bounds. The onboarding wizard is a fixed 8-step flow;
// steps are 1-based ordinals.
const (
	FirstStep = 1
	FinalStep = 8
)

// ValidStep reports whether step is a legal questionnaire step.
func ValidStep(step int) bool {
	return step >= FirstStep && step <= FinalStep
}

// AllSteps returns the full completed-steps set {1..8}.
func AllSteps() []int {
	steps := make([]int, FinalStep)
	for i := range steps {
		steps[i] = i + 1
	}
	return steps
}

// EnglishProficiency captures English test results or self-assessed level.
type EnglishProficiency struct {
	HasTestResults   bool   `json:"has_test_results" bson:"has_test_results"`
	ExamType         string `json:"exam_type,omitempty" bson:"exam_type,omitempty"`
	ExamScore        string `json:"exam_score,omitempty" bson:"exam_score,omitempty"`
	ProficiencyLevel string `json:"proficiency_level,omitempty" bson:"proficiency_level,omitempty"`
}

// VisaRefusalHistory records prior visa refusals, if any.
type VisaRefusalHistory struct {
	HasBeenRefused bool   `json:"has_been_refused" bson:"has_been_refused"`
	Details        string `json:"details,omitempty" bson:"details,omitempty"`
}

// Education describes the applicant's highest education so far.
type Education struct {
	HighestLevel string `json:"highest_level,omitempty" bson:"highest_level,omitempty"`
	Country      string `json:"country,omitempty" bson:"country,omitempty"`
	Level        string `json:"level,omitempty" bson:"level,omitempty"`
	Grade        string `json:"grade,omitempty" bson:"grade,omitempty"`
	Details      string `json:"details,omitempty" bson:"details,omitempty"`
}

// Profile is the per-user onboarding document, one-to-one with User.
// It is created lazily on first write; CurrentStep and CompletedSteps drive
// the questionnaire wizard. Invariants: CurrentStep in {1..8} and
// CompletedSteps a subset of {1..8} with no duplicates.
type Profile struct {
	ID     string `json:"id" bson:"_id,omitempty"`
	UserID string `json:"user_id" bson:"user_id"`

	Phone       string `json:"phone,omitempty" bson:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Address     string `json:"address,omitempty" bson:"address,omitempty"`
	Bio         string `json:"bio,omitempty" bson:"bio,omitempty"`
	Nationality string `json:"nationality,omitempty" bson:"nationality,omitempty"`

	FieldOfStudy       string              `json:"field_of_study,omitempty" bson:"field_of_study,omitempty"`
	StudyLevel         string              `json:"study_level,omitempty" bson:"study_level,omitempty"`
	EnglishProficiency *EnglishProficiency `json:"english_proficiency,omitempty" bson:"english_proficiency,omitempty"`
	AvailableFunds     *float64            `json:"available_funds,omitempty" bson:"available_funds,omitempty"`
	VisaRefusalHistory *VisaRefusalHistory `json:"visa_refusal_history,omitempty" bson:"visa_refusal_history,omitempty"`
	IntendedStartDate  *time.Time          `json:"intended_start_date,omitempty" bson:"intended_start_date,omitempty"`
	Education          *Education          `json:"education,omitempty" bson:"education,omitempty"`
	StandardizedTests  []string            `json:"standardized_tests,omitempty" bson:"standardized_tests,omitempty"`

	CurrentStep    int   `json:"current_step" bson:"current_step"`
	CompletedSteps []int `json:"completed_steps" bson:"completed_steps"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
