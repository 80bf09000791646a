// audit_log.go defines the AuditLog model for recording security-relevant
// events, capturing actor, action, affected resource, client IP/user agent,
// and arbitrary structured details.
package models

import "time"

// AuditLog represents an append-only audit log entry
type AuditLog struct {
	ID             string
	UserID         *string // nil when the actor is an API key or system action
	OrganizationID string
	Action         string                 // "USER_LOGIN", "API_KEY_ROTATED", ...
	Resource       string                 // "user", "project", "api_key"
	Details        map[string]interface{} // JSONB: additional context
	IPAddress      string
	UserAgent      string
	CreatedAt      time.Time
}
