// dto.go defines the response shapes returned inside the envelope's data
// field. Models never serialize directly: the user's password hash and the
// API key's stored digest must not reach the wire.
package api

import (
	"time"

	"github.com/saasbase/saasbase/internal/auth"
	"github.com/saasbase/saasbase/internal/db/models"
)

type userResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Role           auth.Role `json:"role"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           u.Role,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserResponses(users []*models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// authResponse is returned by register and login.
type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// apiKeyResponse never carries the plaintext secret; see apiKeyCreatedResponse.
type apiKeyResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	KeyPrefix string     `json:"keyPrefix"`
	LastUsed  *time.Time `json:"lastUsed"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toAPIKeyResponse(k *models.APIKey) apiKeyResponse {
	return apiKeyResponse{
		ID:        k.ID,
		Name:      k.Name,
		KeyPrefix: k.KeyPrefix,
		LastUsed:  k.LastUsed,
		IsActive:  k.IsActive,
		CreatedAt: k.CreatedAt,
	}
}

func toAPIKeyResponses(keys []*models.APIKey) []apiKeyResponse {
	out := make([]apiKeyResponse, 0, len(keys))
	for _, k := range keys {
		out = append(out, toAPIKeyResponse(k))
	}
	return out
}

// apiKeyCreatedResponse is the only shape that carries the plaintext key. It
// is returned exactly once, from create and rotate; the secret cannot be
// retrieved afterwards.
type apiKeyCreatedResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	KeyPrefix string    `json:"keyPrefix"`
	CreatedAt time.Time `json:"createdAt"`
}

type projectResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	CreatedBy      *string   `json:"createdBy"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toProjectResponse(p *models.Project) projectResponse {
	return projectResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Name:           p.Name,
		Description:    p.Description,
		CreatedBy:      p.CreatedBy,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProjectResponses(projects []*models.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return out
}

type auditLogResponse struct {
	ID             string                 `json:"id"`
	UserID         *string                `json:"userId"`
	OrganizationID string                 `json:"organizationId"`
	Action         string                 `json:"action"`
	Resource       string                 `json:"resource"`
	Details        map[string]interface{} `json:"details"`
	IPAddress      string                 `json:"ipAddress"`
	UserAgent      string                 `json:"userAgent"`
	CreatedAt      time.Time              `json:"createdAt"`
}

func toAuditLogResponses(logs []*models.AuditLog) []auditLogResponse {
	out := make([]auditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, auditLogResponse{
			ID:             l.ID,
			UserID:         l.UserID,
			OrganizationID: l.OrganizationID,
			Action:         l.Action,
			Resource:       l.Resource,
			Details:        l.Details,
			IPAddress:      l.IPAddress,
			UserAgent:      l.UserAgent,
			CreatedAt:      l.CreatedAt,
		})
	}
	return out
}
