// audit_repository.go implements AuditRepository. audit_logs is append-only:
// this repository exposes insert and read queries and nothing else.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/saasbase/saasbase/internal/db/models"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *models.AuditLog) error {
	log.ID = uuid.New().String()
	log.CreatedAt = time.Now()

	// Marshal details to JSONB
	var detailsJSON []byte
	var err error
	if log.Details != nil {
		detailsJSON, err = json.Marshal(log.Details)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_logs (id, user_id, organization_id, action, resource, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		log.ID,
		log.UserID,
		log.OrganizationID,
		log.Action,
		log.Resource,
		detailsJSON,
		log.IPAddress,
		log.UserAgent,
		log.CreatedAt,
	)

	return err
}

// ListByOrganization retrieves the newest audit entries for an organization
func (r *AuditRepository) ListByOrganization(ctx context.Context, orgID string, limit int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, user_id, organization_id, action, resource, details, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE organization_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	return r.queryLogs(ctx, query, orgID, limit)
}

// ListByUser retrieves the newest audit entries for one user within an
// organization. The organization id is part of the query so a user id from
// another tenant yields an empty result, not a leak.
func (r *AuditRepository) ListByUser(ctx context.Context, orgID, userID string, limit int) ([]*models.AuditLog, error) {
	query := `
		SELECT id, user_id, organization_id, action, resource, details, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE organization_id = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	return r.queryLogs(ctx, query, orgID, userID, limit)
}

func (r *AuditRepository) queryLogs(ctx context.Context, query string, args ...any) ([]*models.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*models.AuditLog, 0)
	for rows.Next() {
		log := &models.AuditLog{}
		var detailsJSON []byte

		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.OrganizationID,
			&log.Action,
			&log.Resource,
			&detailsJSON,
			&log.IPAddress,
			&log.UserAgent,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		// Unmarshal details from JSONB
		if detailsJSON != nil {
			if err := json.Unmarshal(detailsJSON, &log.Details); err != nil {
				return nil, err
			}
		}

		logs = append(logs, log)
	}

	return logs, rows.Err()
}
