// Package models defines the database model types for saasbase.
// Each type corresponds to a database table. Models are pure data types —
// business logic belongs in the service layer, query logic belongs in the
// repositories layer.
package models

import "time"

// Organization represents a tenant. Every other entity (users, projects,
// API keys, audit entries) belongs to exactly one organization.
type Organization struct {
	ID        string
	Name      string
	Owner     *string // user id of the registering admin; nil only for legacy rows
	CreatedAt time.Time
	UpdatedAt time.Time
}
