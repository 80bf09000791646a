// Package services implements tenant-scoped business logic that coordinates
// across repositories and the audit sink. Registration, for example, spans two
// repositories: it creates the first user, then the organization that user
// owns, then issues the initial session token — handlers stay thin and only
// bind, call, and render.
//
// Services return *apierr.Error values for expected failures (validation,
// conflicts, missing rows); anything else is a wrapped internal error that
// the HTTP layer renders as a generic 500.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/saasbase/saasbase/internal/apierr"
	"github.com/saasbase/saasbase/internal/audit"
	"github.com/saasbase/saasbase/internal/auth"
	"github.com/saasbase/saasbase/internal/db/models"
	"github.com/saasbase/saasbase/internal/db/repositories"
	"github.com/saasbase/saasbase/internal/telemetry"
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// RequestMeta carries per-request client attributes into audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuthService handles registration and login.
type AuthService struct {
	users    *repositories.UserRepository
	orgs     *repositories.OrganizationRepository
	issuer   *auth.TokenIssuer
	recorder *audit.Recorder
}

// NewAuthService creates a new auth service
func NewAuthService(users *repositories.UserRepository, orgs *repositories.OrganizationRepository, issuer *auth.TokenIssuer, recorder *audit.Recorder) *AuthService {
	return &AuthService{users: users, orgs: orgs, issuer: issuer, recorder: recorder}
}

// RegisterInput is the payload for Register.
type RegisterInput struct {
	OrganizationName string
	Email            string
	Password         string
	FirstName        string
	LastName         string
}

// AuthResult is the outcome of a successful Register or Login.
type AuthResult struct {
	Token string
	User  *models.User
}

// Register creates a new organization with its first user. The first user is
// always an admin: roles are org-scoped and someone must be able to administer
// the new tenant. The user row is created before the organization row so the
// organization's owner column can point at it; if the organization insert then
// fails, the user row is left in place (there is no enclosing transaction) and
// the failure is logged and returned.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta RequestMeta) (*AuthResult, error) {
	if strings.TrimSpace(in.OrganizationName) == "" {
		return nil, apierr.Validation("Organization name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, apierr.Validation("Email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apierr.Newf(apierr.KindValidation, "Password must be at least %d characters", minPasswordLength)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("hash password: %w", err))
	}

	// The organization id is allocated up front so the user row can reference
	// it before the organization row exists.
	orgID := uuid.New().String()

	user := &models.User{
		OrganizationID: orgID,
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PasswordHash:   hash,
		Role:           auth.RoleAdmin,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apierr.Internal(fmt.Errorf("create user: %w", err))
	}

	org := &models.Organization{
		ID:    orgID,
		Name:  in.OrganizationName,
		Owner: &user.ID,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		// No rollback of the user row: registration is not transactional.
		slog.Error("organization create failed after user create",
			"organization_id", orgID,
			"user_id", user.ID,
			"error", err)
		return nil, apierr.Internal(fmt.Errorf("create organization: %w", err))
	}

	token, err := s.issuer.Issue(user.ID, user.Email, orgID, user.Role)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("issue token: %w", err))
	}

	s.recorder.Record(audit.Event{
		ActorUserID:    &user.ID,
		OrganizationID: orgID,
		Action:         audit.ActionUserRegistered,
		Resource:       "users/" + user.ID,
		Details: map[string]interface{}{
			"email":             user.Email,
			"organization_name": in.OrganizationName,
		},
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	})

	return &AuthResult{Token: token, User: user}, nil
}

// Login authenticates a user by email and password. All failure modes (no
// such user, deactivated account, wrong password) return the same generic
// authentication error so the response does not reveal which part failed.
func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("look up user: %w", err))
	}

	if user == nil || !user.IsActive || !auth.CheckPassword(password, user.PasswordHash) {
		telemetry.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, apierr.Authentication("Invalid email or password")
	}

	token, err := s.issuer.Issue(user.ID, user.Email, user.OrganizationID, user.Role)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("issue token: %w", err))
	}

	telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.recorder.Record(audit.Event{
		ActorUserID:    &user.ID,
		OrganizationID: user.OrganizationID,
		Action:         audit.ActionUserLogin,
		Resource:       "users/" + user.ID,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return &AuthResult{Token: token, User: user}, nil
}
