package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/saasbase/saasbase/internal/apierr"
	"github.com/saasbase/saasbase/internal/audit"
	"github.com/saasbase/saasbase/internal/auth"
	"github.com/saasbase/saasbase/internal/db/models"
	"github.com/saasbase/saasbase/internal/db/repositories"
	"github.com/saasbase/saasbase/internal/safego"
	"github.com/saasbase/saasbase/internal/telemetry"
)

// APIKeyService handles the API key lifecycle: create, list, rotate, revoke,
// and verify. The plaintext secret is returned exactly once, from Create and
// Rotate; afterwards only the sha256 digest and a short display prefix exist.
type APIKeyService struct {
	keys     *repositories.APIKeyRepository
	recorder *audit.Recorder
	prefix   string // plaintext key prefix, e.g. "sb_"
}

// NewAPIKeyService creates a new API key service
func NewAPIKeyService(keys *repositories.APIKeyRepository, recorder *audit.Recorder, prefix string) *APIKeyService {
	return &APIKeyService{keys: keys, recorder: recorder, prefix: prefix}
}

// Create mints a new API key for the organization and returns the stored
// record together with the plaintext secret.
func (s *APIKeyService) Create(ctx context.Context, orgID, actorID, name string, meta RequestMeta) (*models.APIKey, string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, "", apierr.Validation("API key name is required")
	}

	plaintext, digest, displayPrefix, err := auth.GenerateAPIKey(s.prefix)
	if err != nil {
		return nil, "", apierr.Internal(fmt.Errorf("generate api key: %w", err))
	}

	key := &models.APIKey{
		OrganizationID: orgID,
		Name:           name,
		KeyHash:        digest,
		KeyPrefix:      displayPrefix,
		IsActive:       true,
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, "", apierr.Internal(fmt.Errorf("create api key: %w", err))
	}

	s.recorder.Record(audit.Event{
		ActorUserID:    &actorID,
		OrganizationID: orgID,
		Action:         audit.ActionAPIKeyCreated,
		Resource:       "api-keys/" + key.ID,
		Details:        map[string]interface{}{"name": name},
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return key, plaintext, nil
}

// List returns all keys for the organization, newest first.
func (s *APIKeyService) List(ctx context.Context, orgID string) ([]*models.APIKey, error) {
	keys, err := s.keys.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list api keys: %w", err))
	}
	return keys, nil
}

// Rotate replaces the key's secret in a single UPDATE scoped to the
// organization, so there is no window where both the old and new secret
// verify. Zero rows updated means the key does not exist in this tenant.
func (s *APIKeyService) Rotate(ctx context.Context, orgID, actorID, keyID string, meta RequestMeta) (*models.APIKey, string, error) {
	plaintext, digest, displayPrefix, err := auth.GenerateAPIKey(s.prefix)
	if err != nil {
		return nil, "", apierr.Internal(fmt.Errorf("generate api key: %w", err))
	}

	found, err := s.keys.Rotate(ctx, orgID, keyID, digest, displayPrefix)
	if err != nil {
		return nil, "", apierr.Internal(fmt.Errorf("rotate api key: %w", err))
	}
	if !found {
		return nil, "", apierr.NotFound("API key not found")
	}

	key, err := s.keys.GetByID(ctx, orgID, keyID)
	if err != nil {
		return nil, "", apierr.Internal(fmt.Errorf("load rotated api key: %w", err))
	}
	if key == nil {
		return nil, "", apierr.NotFound("API key not found")
	}

	s.recorder.Record(audit.Event{
		ActorUserID:    &actorID,
		OrganizationID: orgID,
		Action:         audit.ActionAPIKeyRotated,
		Resource:       "api-keys/" + keyID,
		Details:        map[string]interface{}{"name": key.Name},
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return key, plaintext, nil
}

// Revoke deactivates the key. The row is kept for history; the key simply
// stops verifying.
func (s *APIKeyService) Revoke(ctx context.Context, orgID, actorID, keyID string, meta RequestMeta) error {
	found, err := s.keys.Revoke(ctx, orgID, keyID)
	if err != nil {
		return apierr.Internal(fmt.Errorf("revoke api key: %w", err))
	}
	if !found {
		return apierr.NotFound("API key not found")
	}

	s.recorder.Record(audit.Event{
		ActorUserID:    &actorID,
		OrganizationID: orgID,
		Action:         audit.ActionAPIKeyRevoked,
		Resource:       "api-keys/" + keyID,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return nil
}

// Verify authenticates a plaintext API key against the asserted organization.
// Unknown digest, inactive key, and tenant mismatch all return the same
// generic authentication error. On success the last-used timestamp is updated
// best-effort in the background and an audit entry is recorded with no user
// actor.
func (s *APIKeyService) Verify(ctx context.Context, plaintext, assertedOrgID string, meta RequestMeta) (*models.APIKey, error) {
	digest := auth.DigestAPIKey(plaintext)

	key, err := s.keys.GetByHash(ctx, digest)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("look up api key: %w", err))
	}

	if key == nil || !key.IsActive || key.OrganizationID != assertedOrgID {
		telemetry.APIKeyVerificationsTotal.WithLabelValues("failure").Inc()
		return nil, apierr.Authentication("Invalid API key")
	}

	telemetry.APIKeyVerificationsTotal.WithLabelValues("success").Inc()

	keyID := key.ID
	safego.Go(func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.keys.UpdateLastUsed(bgCtx, keyID); err != nil {
			slog.Warn("failed to update api key last-used", "key_id", keyID, "error", err)
		}
	})

	s.recorder.Record(audit.Event{
		OrganizationID: key.OrganizationID,
		Action:         audit.ActionAPIKeyUsed,
		Resource:       "api-keys/" + key.ID,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return key, nil
}
