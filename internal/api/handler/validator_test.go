package handler

import (
	"strings"
	"testing"
)

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&registerRequest{
		Email:    "not-an-email",
		Password: "ab",
		LastName: "Nguyen",
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}

	msg := err.Error()
	for _, want := range []string{
		"email must be a valid email address",
		"password must be at least 6 characters",
		"first_name is required",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
	// The Go field names must not leak into client-facing messages.
	if strings.Contains(msg, "FirstName") {
		t.Fatalf("struct field name leaked into message: %q", msg)
	}
}

func TestValidator_OneofMessage(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&updateApplicationStatusRequest{Status: "shipped"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.Contains(err.Error(), "status must be one of: draft, submitted, under_review, accepted, rejected") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&registerRequest{
		Email:     "alice@example.com",
		Password:  "secret1",
		FirstName: "Alice",
		LastName:  "Nguyen",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
