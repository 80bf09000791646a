// project.go defines the Project model. Projects carry db tags because the
// project repository scans rows through sqlx.
package models

import "time"

// Project represents a project owned by one organization
type Project struct {
	ID             string    `db:"id"`
	OrganizationID string    `db:"organization_id"`
	Name           string    `db:"name"`
	Description    string    `db:"description"`
	CreatedBy      *string   `db:"created_by"` // user id; nil for system-created projects
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
