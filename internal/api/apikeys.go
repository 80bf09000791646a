// apikeys.go implements API key management for the authenticated
// organization. The plaintext key appears only in create and rotate
// responses.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saasbase/saasbase/internal/middleware"
	"github.com/saasbase/saasbase/internal/services"
)

// APIKeyHandlers serves the /api-keys routes.
type APIKeyHandlers struct {
	svc *services.APIKeyService
}

func NewAPIKeyHandlers(svc *services.APIKeyService) *APIKeyHandlers {
	return &APIKeyHandlers{svc: svc}
}

type createAPIKeyRequest struct {
	Name           string `json:"name" binding:"required"`
	OrganizationID string `json:"organizationId"`
}

// Create issues a new API key for the caller's organization.
func (h *APIKeyHandlers) Create(c *gin.Context) {
	var req createAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body: "+err.Error())
		return
	}
	if !middleware.CheckBodyOrg(c, req.OrganizationID) {
		return
	}

	key, plaintext, err := h.svc.Create(c.Request.Context(),
		middleware.AuthedOrgID(c), middleware.AuthedUserID(c), req.Name,
		middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "API key created. Save the key now; it cannot be retrieved again.", apiKeyCreatedResponse{
		ID:        key.ID,
		Name:      key.Name,
		Key:       plaintext,
		KeyPrefix: key.KeyPrefix,
		CreatedAt: key.CreatedAt,
	})
}

// List returns the organization's API keys, active and revoked, without
// secrets.
func (h *APIKeyHandlers) List(c *gin.Context) {
	keys, err := h.svc.List(c.Request.Context(), middleware.AuthedOrgID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "API keys retrieved", toAPIKeyResponses(keys))
}

// Rotate replaces the key's secret in place. The old plaintext stops
// verifying as soon as the new digest is stored.
func (h *APIKeyHandlers) Rotate(c *gin.Context) {
	key, plaintext, err := h.svc.Rotate(c.Request.Context(),
		middleware.AuthedOrgID(c), middleware.AuthedUserID(c), c.Param("keyId"),
		middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "API key rotated. Save the new key now; it cannot be retrieved again.", apiKeyCreatedResponse{
		ID:        key.ID,
		Name:      key.Name,
		Key:       plaintext,
		KeyPrefix: key.KeyPrefix,
		CreatedAt: key.CreatedAt,
	})
}

// Revoke soft-deletes the key. The row stays for display and audit history.
func (h *APIKeyHandlers) Revoke(c *gin.Context) {
	err := h.svc.Revoke(c.Request.Context(),
		middleware.AuthedOrgID(c), middleware.AuthedUserID(c), c.Param("keyId"),
		middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "API key revoked", nil)
}
