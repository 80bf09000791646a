package services

import (
	"context"
	"fmt"

	"github.com/saasbase/saasbase/internal/apierr"
	"github.com/saasbase/saasbase/internal/db/models"
	"github.com/saasbase/saasbase/internal/db/repositories"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

// AuditService exposes read access to the audit trail. Writes go through
// audit.Recorder only; the trail is append-only.
type AuditService struct {
	logs *repositories.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(logs *repositories.AuditRepository) *AuditService {
	return &AuditService{logs: logs}
}

func clampAuditLimit(limit int) int {
	if limit <= 0 {
		return defaultAuditLimit
	}
	if limit > maxAuditLimit {
		return maxAuditLimit
	}
	return limit
}

// ListByOrganization returns the organization's audit trail, newest first.
func (s *AuditService) ListByOrganization(ctx context.Context, orgID string, limit int) ([]*models.AuditLog, error) {
	logs, err := s.logs.ListByOrganization(ctx, orgID, clampAuditLimit(limit))
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list audit logs: %w", err))
	}
	return logs, nil
}

// ListByUser returns one user's audit history within the organization,
// newest first.
func (s *AuditService) ListByUser(ctx context.Context, orgID, userID string, limit int) ([]*models.AuditLog, error) {
	logs, err := s.logs.ListByUser(ctx, orgID, userID, clampAuditLimit(limit))
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list user audit logs: %w", err))
	}
	return logs, nil
}
