// api_key.go defines the APIKey model. Only the sha256 digest of the secret
// is ever persisted; the plaintext exists transiently at create/rotate time.
package models

import "time"

// APIKey represents an API key for machine authentication
type APIKey struct {
	ID             string
	OrganizationID string
	Name           string     // Friendly name (e.g., "CI/CD Pipeline Key")
	KeyHash        string     // sha256 hex digest of the full key; verification lookup key
	KeyPrefix      string     // First few chars of the plaintext for display (e.g., "sb_a1b2")
	LastUsed       *time.Time // Updated best-effort on each successful verification
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
