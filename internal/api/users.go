// users.go implements user management plus the self-service password change.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/saasbase/saasbase/internal/auth"
	"github.com/saasbase/saasbase/internal/middleware"
	"github.com/saasbase/saasbase/internal/services"
)

// UserHandlers serves the /users routes.
type UserHandlers struct {
	svc *services.UserService
}

func NewUserHandlers(svc *services.UserService) *UserHandlers {
	return &UserHandlers{svc: svc}
}

// queryInt reads an integer query parameter, falling back on absence or
// garbage. Range clamping happens in the service layer.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

type createUserRequest struct {
	Email          string    `json:"email" binding:"required,email"`
	Password       string    `json:"password" binding:"required"`
	FirstName      string    `json:"firstName" binding:"required"`
	LastName       string    `json:"lastName" binding:"required"`
	Role           auth.Role `json:"role" binding:"required"`
	OrganizationID string    `json:"organizationId"`
}

// Create adds a user to the caller's organization.
func (h *UserHandlers) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body: "+err.Error())
		return
	}
	if !middleware.CheckBodyOrg(c, req.OrganizationID) {
		return
	}

	user, err := h.svc.Create(c.Request.Context(),
		middleware.AuthedOrgID(c), middleware.AuthedUserID(c),
		services.CreateUserInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      req.Role,
		}, middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "User created", toUserResponse(user))
}

// Get returns one user of the caller's organization.
func (h *UserHandlers) Get(c *gin.Context) {
	user, err := h.svc.Get(c.Request.Context(), middleware.AuthedOrgID(c), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "User retrieved", toUserResponse(user))
}

// List returns the organization's users, paginated by ?limit and ?offset.
func (h *UserHandlers) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context(), middleware.AuthedOrgID(c),
		queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Users retrieved", toUserResponses(users))
}

type updateUserRequest struct {
	FirstName *string    `json:"firstName"`
	LastName  *string    `json:"lastName"`
	Role      *auth.Role `json:"role"`
}

// Update modifies a user's name or role. Absent fields are left untouched.
func (h *UserHandlers) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(),
		middleware.AuthedOrgID(c), middleware.AuthedUserID(c), c.Param("userId"),
		services.UpdateUserInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      req.Role,
		}, middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "User updated", toUserResponse(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// ChangePassword is self-service only: it always operates on the
// authenticated user, never on a path parameter.
func (h *UserHandlers) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body: "+err.Error())
		return
	}

	err := h.svc.ChangePassword(c.Request.Context(),
		middleware.AuthedOrgID(c), middleware.AuthedUserID(c),
		req.CurrentPassword, req.NewPassword, middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Password changed", nil)
}

// Deactivate soft-deletes a user. Deactivated users cannot log in; tokens
// already issued remain valid until they expire.
func (h *UserHandlers) Deactivate(c *gin.Context) {
	err := h.svc.Deactivate(c.Request.Context(),
		middleware.AuthedOrgID(c), middleware.AuthedUserID(c), c.Param("userId"),
		middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "User deactivated", nil)
}
