// user_repository.go implements UserRepository. Reads used by tenant-scoped
// operations take the organization id as a query parameter so a cross-tenant
// user id behaves exactly like a missing one.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/saasbase/saasbase/internal/db/models"
)

const userColumns = `id, organization_id, email, first_name, last_name, password_hash, role, is_active, created_at, updated_at`

// UserRepository handles user database operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.OrganizationID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.OrganizationID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

// GetByEmail retrieves a user by email (case-insensitive). Used by login,
// which receives no tenant assertion; the newest account wins if the same
// address exists in multiple organizations.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1)
		ORDER BY created_at DESC
		LIMIT 1
	`

	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByEmailInOrg retrieves a user by email within an organization. Used for
// the lookup-before-create duplicate check.
func (r *UserRepository) GetByEmailInOrg(ctx context.Context, orgID, email string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE organization_id = $1 AND lower(email) = lower($2)
	`

	return scanUser(r.db.QueryRowContext(ctx, query, orgID, email))
}

// GetByID retrieves a user by ID within an organization
func (r *UserRepository) GetByID(ctx context.Context, orgID, userID string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE organization_id = $1 AND id = $2
	`

	return scanUser(r.db.QueryRowContext(ctx, query, orgID, userID))
}

// List retrieves a paginated list of users within an organization
func (r *UserRepository) List(ctx context.Context, orgID string, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// Update updates a user's mutable profile fields (name, role, active flag).
// Email and organization_id are immutable after creation. Returns false when
// no row matched the (org, id) pair.
func (r *UserRepository) Update(ctx context.Context, user *models.User) (bool, error) {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET first_name = $3, last_name = $4, role = $5, is_active = $6, updated_at = $7
		WHERE organization_id = $1 AND id = $2
	`

	res, err := r.db.ExecContext(ctx, query,
		user.OrganizationID,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Role,
		user.IsActive,
		user.UpdatedAt,
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

// UpdatePassword replaces a user's password hash. Returns false when no row
// matched the (org, id) pair.
func (r *UserRepository) UpdatePassword(ctx context.Context, orgID, userID, passwordHash string) (bool, error) {
	query := `
		UPDATE users
		SET password_hash = $3, updated_at = $4
		WHERE organization_id = $1 AND id = $2
	`

	res, err := r.db.ExecContext(ctx, query, orgID, userID, passwordHash, time.Now())
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Deactivate soft-deletes a user by clearing is_active. Returns false when no
// row matched the (org, id) pair.
func (r *UserRepository) Deactivate(ctx context.Context, orgID, userID string) (bool, error) {
	query := `
		UPDATE users
		SET is_active = FALSE, updated_at = $3
		WHERE organization_id = $1 AND id = $2
	`

	res, err := r.db.ExecContext(ctx, query, orgID, userID, time.Now())
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
