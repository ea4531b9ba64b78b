package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/studybridge/apply-platform/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, resp
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{domain.ErrEmailTaken, http.StatusBadRequest, "user already exists"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{domain.ErrProfileNotFound, http.StatusNotFound, "profile not found"},
		{domain.ErrApplicationNotFound, http.StatusNotFound, "application not found"},
	}

	for _, tc := range cases {
		code, resp := render(t, tc.err)
		if code != tc.wantCode {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.wantCode, code)
		}
		if resp.Success {
			t.Fatalf("%v: expected success=false", tc.err)
		}
		if resp.Error != tc.wantMsg {
			t.Fatalf("%v: expected %q, got %q", tc.err, tc.wantMsg, resp.Error)
		}
	}
}

func TestHTTPErrorHandler_WrappedValidation(t *testing.T) {
	code, resp := render(t, fmt.Errorf("%w: step 9 out of range 1..8", domain.ErrValidation))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if resp.Error == "" {
		t.Fatalf("expected error message")
	}
}

func TestHTTPErrorHandler_InvalidTransition(t *testing.T) {
	code, _ := render(t, fmt.Errorf("%w (from draft to accepted)", domain.ErrInvalidTransition))
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	code, resp := render(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if resp.Error != "missing authorization header" {
		t.Fatalf("unexpected message: %q", resp.Error)
	}
}

func TestHTTPErrorHandler_UnknownError(t *testing.T) {
	code, resp := render(t, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	// Internal causes never leak to the client.
	if resp.Error != "internal server error" {
		t.Fatalf("unexpected message: %q", resp.Error)
	}
}
