package auth

import (
	"testing"
	"time"
)

func testIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	ti, err := NewTokenIssuer("test-jwt-secret-that-is-32-chars-!", time.Hour, "saasbase")
	if err != nil {
		t.Fatalf("NewTokenIssuer() error: %v", err)
	}
	return ti
}

func TestNewTokenIssuer(t *testing.T) {
	t.Run("empty secret is rejected", func(t *testing.T) {
		if _, err := NewTokenIssuer("", time.Hour, "saasbase"); err == nil {
			t.Error("NewTokenIssuer() expected error for empty secret, got nil")
		}
	})

	t.Run("zero expiry falls back to 24h", func(t *testing.T) {
		ti, err := NewTokenIssuer("some-secret", 0, "saasbase")
		if err != nil {
			t.Fatalf("NewTokenIssuer() error: %v", err)
		}
		token, err := ti.Issue("uid", "u@example.com", "org-1", RoleUser)
		if err != nil {
			t.Fatalf("Issue() error: %v", err)
		}
		claims, err := ti.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error: %v", err)
		}
		remaining := time.Until(claims.ExpiresAt.Time)
		if remaining < 23*time.Hour || remaining > 25*time.Hour {
			t.Errorf("default expiry remaining = %v, want ~24h", remaining)
		}
	})
}

func TestIssueAndVerify(t *testing.T) {
	ti := testIssuer(t)

	t.Run("round trip", func(t *testing.T) {
		token, err := ti.Issue("user-123", "test@example.com", "org-456", RoleAdmin)
		if err != nil {
			t.Fatalf("Issue() error: %v", err)
		}
		if token == "" {
			t.Fatal("Issue() returned empty token")
		}

		claims, err := ti.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error: %v", err)
		}
		if claims.UserID != "user-123" {
			t.Errorf("claims.UserID = %q, want %q", claims.UserID, "user-123")
		}
		if claims.Email != "test@example.com" {
			t.Errorf("claims.Email = %q, want %q", claims.Email, "test@example.com")
		}
		if claims.OrganizationID != "org-456" {
			t.Errorf("claims.OrganizationID = %q, want %q", claims.OrganizationID, "org-456")
		}
		if claims.Role != RoleAdmin {
			t.Errorf("claims.Role = %q, want %q", claims.Role, RoleAdmin)
		}
		if claims.Issuer != "saasbase" {
			t.Errorf("claims.Issuer = %q, want %q", claims.Issuer, "saasbase")
		}
		if claims.Subject != "user-123" {
			t.Errorf("claims.Subject = %q, want %q", claims.Subject, "user-123")
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired, err := NewTokenIssuer("test-jwt-secret-that-is-32-chars-!", -time.Second, "saasbase")
		if err != nil {
			t.Fatalf("NewTokenIssuer() error: %v", err)
		}
		token, err := expired.Issue("uid", "u@example.com", "org-1", RoleUser)
		if err != nil {
			t.Fatalf("Issue() error: %v", err)
		}
		if _, err := ti.Verify(token); err == nil {
			t.Error("Verify() expected error for expired token, got nil")
		}
	})

	t.Run("invalid token string", func(t *testing.T) {
		if _, err := ti.Verify("not.a.valid.token"); err == nil {
			t.Error("Verify() expected error for garbage token, got nil")
		}
	})

	t.Run("empty token string", func(t *testing.T) {
		if _, err := ti.Verify(""); err == nil {
			t.Error("Verify() expected error for empty token, got nil")
		}
	})

	t.Run("token signed with different secret is rejected", func(t *testing.T) {
		other, err := NewTokenIssuer("completely-different-secret-32ch!", time.Hour, "saasbase")
		if err != nil {
			t.Fatalf("NewTokenIssuer() error: %v", err)
		}
		token, err := other.Issue("uid", "u@example.com", "org-1", RoleUser)
		if err != nil {
			t.Fatalf("Issue() error: %v", err)
		}
		if _, err := ti.Verify(token); err == nil {
			t.Error("Verify() expected error for token signed with different secret, got nil")
		}
	})
}
