// api_key_repository.go implements APIKeyRepository, providing database queries
// for API key creation, digest lookup, rotation, revocation, and last-used
// timestamp updates. Rotation and revocation are single UPDATE statements keyed
// on (id, organization_id): a cross-tenant key id affects zero rows, which the
// service layer reports as not found.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/saasbase/saasbase/internal/db/models"
)

const apiKeyColumns = `id, organization_id, name, key_hash, key_prefix, last_used, is_active, created_at, updated_at`

// APIKeyRepository handles API key database operations
type APIKeyRepository struct {
	db *sql.DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func scanAPIKey(row interface{ Scan(...any) error }) (*models.APIKey, error) {
	k := &models.APIKey{}
	err := row.Scan(
		&k.ID,
		&k.OrganizationID,
		&k.Name,
		&k.KeyHash,
		&k.KeyPrefix,
		&k.LastUsed,
		&k.IsActive,
		&k.CreatedAt,
		&k.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return k, nil
}

// Create creates a new API key record
func (r *APIKeyRepository) Create(ctx context.Context, apiKey *models.APIKey) error {
	apiKey.ID = uuid.New().String()
	apiKey.CreatedAt = time.Now()
	apiKey.UpdatedAt = apiKey.CreatedAt

	query := `
		INSERT INTO api_keys (` + apiKeyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		apiKey.ID,
		apiKey.OrganizationID,
		apiKey.Name,
		apiKey.KeyHash,
		apiKey.KeyPrefix,
		apiKey.LastUsed,
		apiKey.IsActive,
		apiKey.CreatedAt,
		apiKey.UpdatedAt,
	)

	return err
}

// GetByHash retrieves an API key by its digest (the authentication lookup)
func (r *APIKeyRepository) GetByHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	query := `
		SELECT ` + apiKeyColumns + `
		FROM api_keys
		WHERE key_hash = $1
	`

	return scanAPIKey(r.db.QueryRowContext(ctx, query, keyHash))
}

// GetByID retrieves an API key by ID within an organization
func (r *APIKeyRepository) GetByID(ctx context.Context, orgID, keyID string) (*models.APIKey, error) {
	query := `
		SELECT ` + apiKeyColumns + `
		FROM api_keys
		WHERE organization_id = $1 AND id = $2
	`

	return scanAPIKey(r.db.QueryRowContext(ctx, query, orgID, keyID))
}

// ListByOrganization retrieves all API keys for an organization, newest first
func (r *APIKeyRepository) ListByOrganization(ctx context.Context, orgID string) ([]*models.APIKey, error) {
	query := `
		SELECT ` + apiKeyColumns + `
		FROM api_keys
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apiKeys := make([]*models.APIKey, 0)
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		apiKeys = append(apiKeys, k)
	}

	return apiKeys, rows.Err()
}

// Rotate replaces the digest and display prefix of an existing key in a single
// UPDATE. The old secret stops verifying the instant the statement commits;
// there is no window in which both secrets are valid. Returns false when no
// row matched the (org, id) pair.
func (r *APIKeyRepository) Rotate(ctx context.Context, orgID, keyID, newHash, newPrefix string) (bool, error) {
	query := `
		UPDATE api_keys
		SET key_hash = $3, key_prefix = $4, updated_at = $5
		WHERE organization_id = $1 AND id = $2
	`

	res, err := r.db.ExecContext(ctx, query, orgID, keyID, newHash, newPrefix, time.Now())
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Revoke soft-deletes a key by clearing is_active. The row is retained so key
// ids are never reused and the audit trail stays resolvable. Returns false
// when no row matched the (org, id) pair.
func (r *APIKeyRepository) Revoke(ctx context.Context, orgID, keyID string) (bool, error) {
	query := `
		UPDATE api_keys
		SET is_active = FALSE, updated_at = $3
		WHERE organization_id = $1 AND id = $2
	`

	res, err := r.db.ExecContext(ctx, query, orgID, keyID, time.Now())
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UpdateLastUsed updates the last_used timestamp for an API key
func (r *APIKeyRepository) UpdateLastUsed(ctx context.Context, keyID string) error {
	query := `
		UPDATE api_keys
		SET last_used = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, keyID, time.Now())
	return err
}
