// auth.go implements the public registration and login endpoints.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saasbase/saasbase/internal/middleware"
	"github.com/saasbase/saasbase/internal/services"
)

// AuthHandlers serves POST /auth/register and POST /auth/login.
type AuthHandlers struct {
	svc *services.AuthService
}

func NewAuthHandlers(svc *services.AuthService) *AuthHandlers {
	return &AuthHandlers{svc: svc}
}

type registerRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required"`
	FirstName        string `json:"firstName" binding:"required"`
	LastName         string `json:"lastName" binding:"required"`
	OrganizationName string `json:"organizationName" binding:"required"`
}

// Register creates a new organization with its first (admin) user and
// returns a token for it.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Register(c.Request.Context(), services.RegisterInput{
		OrganizationName: req.OrganizationName,
		Email:            req.Email,
		Password:         req.Password,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
	}, middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Registration successful", authResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a token. All failure modes share one
// message so the endpoint does not reveal which accounts exist.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, middleware.RequestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Login successful", authResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	})
}
