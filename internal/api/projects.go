// projects.go implements project management. The same handlers back both the
// JWT-protected /projects group and the read-only API-key /ext/projects
// group; the router decides which methods each group exposes.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saasbase/saasbase/internal/middleware"
	"github.com/saasbase/saasbase/internal/services"
)

// ProjectHandlers serves the /projects and /ext/projects routes.
type ProjectHandlers struct {
	svc *services.ProjectService
}

func NewProjectHandlers(svc *services.ProjectService) *ProjectHandlers {
	return &ProjectHandlers{svc: svc}
}

type createProjectRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	OrganizationID string `json:"organizationId"`
}

// Create adds a project to the caller's organization.
func (h *ProjectHandlers) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body: "+err.Error())
		return
	}
	if !middleware.CheckBodyOrg(c, req.OrganizationID) {
		return
	}

	project, err := h.svc.Create(c.Request.Context(),
		middleware.AuthedOrgID(c), middleware.AuthedUserID(c),
		req.Name, req.Description, middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Project created", toProjectResponse(project))
}

// Get returns one project of the caller's organization.
func (h *ProjectHandlers) Get(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), middleware.AuthedOrgID(c), c.Param("projectId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Project retrieved", toProjectResponse(project))
}

// List returns the organization's projects, newest first, paginated by
// ?limit and ?offset.
func (h *ProjectHandlers) List(c *gin.Context) {
	projects, err := h.svc.List(c.Request.Context(), middleware.AuthedOrgID(c),
		queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Projects retrieved", toProjectResponses(projects))
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Update modifies a project's name or description.
func (h *ProjectHandlers) Update(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body: "+err.Error())
		return
	}

	project, err := h.svc.Update(c.Request.Context(),
		middleware.AuthedOrgID(c), middleware.AuthedUserID(c), c.Param("projectId"),
		services.UpdateProjectInput{
			Name:        req.Name,
			Description: req.Description,
		}, middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Project updated", toProjectResponse(project))
}

// Delete soft-deletes a project.
func (h *ProjectHandlers) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(),
		middleware.AuthedOrgID(c), middleware.AuthedUserID(c), c.Param("projectId"),
		middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Project deleted", nil)
}
