// user.go defines the User model. The role column holds one of the
// auth.Role values; organization_id never changes after creation.
package models

import (
	"time"

	"github.com/saasbase/saasbase/internal/auth"
)

// User represents a user account scoped to one organization
type User struct {
	ID             string
	OrganizationID string
	Email          string
	FirstName      string
	LastName       string
	PasswordHash   string // never serialized or logged
	Role           auth.Role
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
