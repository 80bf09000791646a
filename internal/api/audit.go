// audit.go implements read access to the audit trail. The org-wide listing
// is admin-only (enforced by the route's role set); per-user history is
// self-or-admin, which depends on the path parameter and is therefore
// checked here rather than in middleware.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saasbase/saasbase/internal/apierr"
	"github.com/saasbase/saasbase/internal/auth"
	"github.com/saasbase/saasbase/internal/middleware"
	"github.com/saasbase/saasbase/internal/services"
)

// AuditHandlers serves the /audit routes.
type AuditHandlers struct {
	svc *services.AuditService
}

func NewAuditHandlers(svc *services.AuditService) *AuditHandlers {
	return &AuditHandlers{svc: svc}
}

// ListOrganization returns the organization's audit trail, newest first,
// capped by ?limit.
func (h *AuditHandlers) ListOrganization(c *gin.Context) {
	logs, err := h.svc.ListByOrganization(c.Request.Context(),
		middleware.AuthedOrgID(c), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Audit logs retrieved", toAuditLogResponses(logs))
}

// ListUser returns one user's audit history. Callers may read their own
// history; reading anyone else's requires the admin role.
func (h *AuditHandlers) ListUser(c *gin.Context) {
	targetID := c.Param("userId")
	role, _ := middleware.AuthedRole(c)
	if targetID != middleware.AuthedUserID(c) && role != auth.RoleAdmin {
		respondError(c, apierr.Authorization("You may only view your own audit history"))
		return
	}

	logs, err := h.svc.ListByUser(c.Request.Context(),
		middleware.AuthedOrgID(c), targetID, queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Audit logs retrieved", toAuditLogResponses(logs))
}
