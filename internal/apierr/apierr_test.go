package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

// ---------------------------------------------------------------------------
// Kind mapping
// ---------------------------------------------------------------------------

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindAuthentication, http.StatusUnauthorized},
		{KindAuthorization, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if KindNotFound.String() != "not_found" {
		t.Errorf("KindNotFound.String() = %q", KindNotFound.String())
	}
	if Kind(99).String() != "internal" {
		t.Errorf("unknown kind should stringify as internal, got %q", Kind(99).String())
	}
}

// ---------------------------------------------------------------------------
// Error construction and unwrapping
// ---------------------------------------------------------------------------

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Wrap(KindInternal, "Internal server error", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
}

func TestInternal_HidesCauseFromClients(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := Internal(cause)

	if MessageOf(err) != "Internal server error" {
		t.Errorf("MessageOf() = %q, want generic message", MessageOf(err))
	}
	// The cause is still reachable for logging.
	if !errors.Is(err, cause) {
		t.Error("Internal() should preserve the cause for errors.Is")
	}
}

// ---------------------------------------------------------------------------
// Extraction helpers
// ---------------------------------------------------------------------------

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation error", Validation("email is required"), KindValidation},
		{"authentication error", Authentication("Invalid credentials"), KindAuthentication},
		{"authorization error", Authorization("Insufficient permissions"), KindAuthorization},
		{"not found error", NotFound("Project not found"), KindNotFound},
		{"conflict error", Conflict("Email already registered"), KindConflict},
		{"plain error", errors.New("boom"), KindInternal},
		{"nil error", nil, KindInternal},
		{"wrapped apierr", fmt.Errorf("context: %w", NotFound("API key not found")), KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageOf(t *testing.T) {
	if got := MessageOf(NotFound("Project not found")); got != "Project not found" {
		t.Errorf("MessageOf() = %q, want %q", got, "Project not found")
	}
	if got := MessageOf(errors.New("sql: no rows in result set")); got != "Internal server error" {
		t.Errorf("MessageOf() for plain error = %q, want generic message", got)
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(Conflict("Email already registered")); got != http.StatusConflict {
		t.Errorf("StatusOf() = %d, want 409", got)
	}
	if got := StatusOf(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("StatusOf() for plain error = %d, want 500", got)
	}
}

func TestIsKind(t *testing.T) {
	err := NotFound("User not found")
	if !IsKind(err, KindNotFound) {
		t.Error("IsKind should report KindNotFound")
	}
	if IsKind(err, KindConflict) {
		t.Error("IsKind should not report KindConflict")
	}
}
