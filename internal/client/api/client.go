// Package api is the thin HTTP client for the apply-platform server. It
// speaks the JSON envelope ({success, error?, ...payload}) and attaches the
// bearer credential when one is set.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studybridge/apply-platform/internal/core/domain"
)

const defaultRequestTimeout = 15 * time.Second

// Error is a server-rejected request: the HTTP status plus the message from
// the error envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a server rejection with status 401.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*Error)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// Client wraps the server's HTTP API. Not safe for concurrent use while the
// token is being changed.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a Client targeting baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultRequestTimeout},
	}
}

// SetToken attaches a bearer credential to subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// ClearToken removes the bearer credential.
func (c *Client) ClearToken() { c.token = "" }

// Token returns the currently attached credential, or "".
func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	// A non-JSON body (proxy error page, etc.) still maps onto the envelope.
	_ = json.Unmarshal(raw, &envelope)

	if resp.StatusCode >= http.StatusBadRequest || !envelope.Success {
		msg := envelope.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// --- Auth ---

// RegisterInput carries the sign-up form fields.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AuthPayload is the register/login response body.
type AuthPayload struct {
	Token   string          `json:"token"`
	User    domain.User     `json:"user"`
	Profile *domain.Profile `json:"profile"`
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthPayload, error) {
	var payload AuthPayload
	if err := c.do(ctx, http.MethodPost, "/auth/register", input, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	body := map[string]string{"email": email, "password": password}
	var payload AuthPayload
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AccountPayload is the combined identity + profile view.
type AccountPayload struct {
	User    domain.User     `json:"user"`
	Profile *domain.Profile `json:"profile"`
}

// Account resolves the identity behind the attached credential.
func (c *Client) Account(ctx context.Context) (*AccountPayload, error) {
	var payload AccountPayload
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Logout tells the server the session ended. The server holds no session
// state, so this is purely an acknowledgement.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// --- Profile & questionnaire ---

// ProfileUpdate enumerates the updatable profile fields; nil means "leave
// unchanged". Mirrors the server's typed partial-update schema.
type ProfileUpdate struct {
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

func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var payload struct {
		Profile *domain.Profile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.Profile, error) {
	var payload struct {
		Profile *domain.Profile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodPut, "/profile", update, &payload); err != nil {
		return nil, err
	}
	return payload.Profile, nil
}

// ProgressPayload is the questionnaire progress view.
type ProgressPayload struct {
	CurrentStep    int             `json:"current_step"`
	CompletedSteps []int           `json:"completed_steps"`
	Profile        *domain.Profile `json:"profile"`
}

func (c *Client) Progress(ctx context.Context) (*ProgressPayload, error) {
	var payload ProgressPayload
	if err := c.do(ctx, http.MethodGet, "/profile/questionnaire/progress", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) SaveStep(ctx context.Context, step int, data ProfileUpdate) (*domain.Profile, error) {
	body := struct {
		Step int           `json:"step"`
		Data ProfileUpdate `json:"data"`
	}{Step: step, Data: data}

	var payload struct {
		Profile *domain.Profile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodPost, "/profile/questionnaire/step", body, &payload); err != nil {
		return nil, err
	}
	return payload.Profile, nil
}

func (c *Client) Complete(ctx context.Context, data ProfileUpdate) (*domain.Profile, error) {
	var payload struct {
		Profile *domain.Profile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodPost, "/profile/questionnaire/complete", data, &payload); err != nil {
		return nil, err
	}
	return payload.Profile, nil
}

// --- Applications ---

func (c *Client) CreateApplication(ctx context.Context, universityID, program string) (*domain.Application, error) {
	body := map[string]string{"university_id": universityID, "program": program}
	var payload struct {
		Application *domain.Application `json:"application"`
	}
	if err := c.do(ctx, http.MethodPost, "/applications", body, &payload); err != nil {
		return nil, err
	}
	return payload.Application, nil
}

func (c *Client) ListApplications(ctx context.Context) ([]*domain.Application, error) {
	var payload struct {
		Applications []*domain.Application `json:"applications"`
	}
	if err := c.do(ctx, http.MethodGet, "/applications", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Applications, nil
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, reference string, status domain.ApplicationStatus) (*domain.Application, error) {
	body := map[string]string{"status": string(status)}
	var payload struct {
		Application *domain.Application `json:"application"`
	}
	if err := c.do(ctx, http.MethodPut, "/applications/"+reference+"/status", body, &payload); err != nil {
		return nil, err
	}
	return payload.Application, nil
}
