// Package repositories implements the data access layer (repository pattern) for saasbase.
// Each repository type encapsulates all database queries for a domain entity.
// Handlers never issue SQL directly — all database access goes through this layer,
// which makes query logic testable in isolation and prevents accidental
// cross-tenant data access: every tenant-scoped query takes the organization id
// as an explicit parameter.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/saasbase/saasbase/internal/db/models"
)

// OrganizationRepository handles organization database operations
type OrganizationRepository struct {
	db *sql.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// Create creates a new organization. Unlike other entities the caller supplies
// the id: registration allocates the organization id before the owning user row
// is written, so the same id must be reused here.
func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	org.CreatedAt = time.Now()
	org.UpdatedAt = org.CreatedAt

	query := `
		INSERT INTO organizations (id, name, owner, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		org.ID,
		org.Name,
		org.Owner,
		org.CreatedAt,
		org.UpdatedAt,
	)

	return err
}

// GetByID retrieves an organization by ID
func (r *OrganizationRepository) GetByID(ctx context.Context, orgID string) (*models.Organization, error) {
	query := `
		SELECT id, name, owner, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`

	org := &models.Organization{}
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(
		&org.ID,
		&org.Name,
		&org.Owner,
		&org.CreatedAt,
		&org.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return org, nil
}

// GetByName retrieves an organization by name (names are intended-unique but
// not constrained; the newest match wins)
func (r *OrganizationRepository) GetByName(ctx context.Context, name string) (*models.Organization, error) {
	query := `
		SELECT id, name, owner, created_at, updated_at
		FROM organizations
		WHERE name = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	org := &models.Organization{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&org.ID,
		&org.Name,
		&org.Owner,
		&org.CreatedAt,
		&org.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return org, nil
}
