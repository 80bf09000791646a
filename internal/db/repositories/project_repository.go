// project_repository.go implements ProjectRepository over sqlx for struct
// scanning on the list-heavy project queries. All reads and writes are keyed
// on (organization_id, id) so a cross-tenant project id behaves exactly like a
// missing one.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/saasbase/saasbase/internal/db/models"
)

// ProjectRepository handles project database operations
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	project.ID = uuid.New().String()
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt

	query := `
		INSERT INTO projects (id, organization_id, name, description, created_by, is_active, created_at, updated_at)
		VALUES (:id, :organization_id, :name, :description, :created_by, :is_active, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, project)
	return err
}

// GetByID retrieves an active project by ID within an organization
func (r *ProjectRepository) GetByID(ctx context.Context, orgID, projectID string) (*models.Project, error) {
	query := `
		SELECT id, organization_id, name, description, created_by, is_active, created_at, updated_at
		FROM projects
		WHERE organization_id = $1 AND id = $2 AND is_active = TRUE
	`

	project := &models.Project{}
	err := r.db.GetContext(ctx, project, query, orgID, projectID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// GetByName retrieves an active project by name within an organization. Used
// for the lookup-before-create duplicate check.
func (r *ProjectRepository) GetByName(ctx context.Context, orgID, name string) (*models.Project, error) {
	query := `
		SELECT id, organization_id, name, description, created_by, is_active, created_at, updated_at
		FROM projects
		WHERE organization_id = $1 AND name = $2 AND is_active = TRUE
	`

	project := &models.Project{}
	err := r.db.GetContext(ctx, project, query, orgID, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

// List retrieves a paginated list of active projects within an organization
func (r *ProjectRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*models.Project, error) {
	query := `
		SELECT id, organization_id, name, description, created_by, is_active, created_at, updated_at
		FROM projects
		WHERE organization_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	projects := make([]*models.Project, 0)
	if err := r.db.SelectContext(ctx, &projects, query, orgID, limit, offset); err != nil {
		return nil, err
	}
	return projects, nil
}

// Update updates a project's name and description. Returns false when no
// active row matched the (org, id) pair.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) (bool, error) {
	project.UpdatedAt = time.Now()

	query := `
		UPDATE projects
		SET name = $3, description = $4, updated_at = $5
		WHERE organization_id = $1 AND id = $2 AND is_active = TRUE
	`

	res, err := r.db.ExecContext(ctx, query,
		project.OrganizationID,
		project.ID,
		project.Name,
		project.Description,
		project.UpdatedAt,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SoftDelete marks a project inactive. Returns false when no active row
// matched the (org, id) pair.
func (r *ProjectRepository) SoftDelete(ctx context.Context, orgID, projectID string) (bool, error) {
	query := `
		UPDATE projects
		SET is_active = FALSE, updated_at = $3
		WHERE organization_id = $1 AND id = $2 AND is_active = TRUE
	`

	res, err := r.db.ExecContext(ctx, query, orgID, projectID, time.Now())
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
