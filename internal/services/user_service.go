package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/saasbase/saasbase/internal/apierr"
	"github.com/saasbase/saasbase/internal/audit"
	"github.com/saasbase/saasbase/internal/auth"
	"github.com/saasbase/saasbase/internal/db/models"
	"github.com/saasbase/saasbase/internal/db/repositories"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// clampPage normalizes limit/offset for list queries.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// UserService manages user accounts within an organization.
type UserService struct {
	users    *repositories.UserRepository
	recorder *audit.Recorder
}

// NewUserService creates a new user service
func NewUserService(users *repositories.UserRepository, recorder *audit.Recorder) *UserService {
	return &UserService{users: users, recorder: recorder}
}

// CreateUserInput is the payload for Create.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      auth.Role
}

// Create adds a user to the organization. Email uniqueness is per-org and
// enforced here with a pre-insert lookup, not by a database constraint.
func (s *UserService) Create(ctx context.Context, orgID, actorID string, in CreateUserInput, meta RequestMeta) (*models.User, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, apierr.Validation("Email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apierr.Newf(apierr.KindValidation, "Password must be at least %d characters", minPasswordLength)
	}
	if !in.Role.Valid() {
		return nil, apierr.Newf(apierr.KindValidation, "Invalid role: %s", in.Role)
	}

	existing, err := s.users.GetByEmailInOrg(ctx, orgID, in.Email)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("check email uniqueness: %w", err))
	}
	if existing != nil {
		return nil, apierr.Conflict("A user with this email already exists in the organization")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		OrganizationID: orgID,
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		PasswordHash:   hash,
		Role:           in.Role,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apierr.Internal(fmt.Errorf("create user: %w", err))
	}

	s.recorder.Record(audit.Event{
		ActorUserID:    &actorID,
		OrganizationID: orgID,
		Action:         audit.ActionUserCreated,
		Resource:       "users/" + user.ID,
		Details:        map[string]interface{}{"email": user.Email, "role": string(user.Role)},
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return user, nil
}

// Get returns one user in the organization.
func (s *UserService) Get(ctx context.Context, orgID, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, orgID, userID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apierr.NotFound("User not found")
	}
	return user, nil
}

// List returns users in the organization, newest first.
func (s *UserService) List(ctx context.Context, orgID string, limit, offset int) ([]*models.User, error) {
	limit, offset = clampPage(limit, offset)
	users, err := s.users.List(ctx, orgID, limit, offset)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list users: %w", err))
	}
	return users, nil
}

// UpdateUserInput is the payload for Update. Nil fields are left unchanged;
// email and organization are immutable.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Role      *auth.Role
}

// Update modifies a user's name or role.
func (s *UserService) Update(ctx context.Context, orgID, actorID, userID string, in UpdateUserInput, meta RequestMeta) (*models.User, error) {
	if in.Role != nil && !in.Role.Valid() {
		return nil, apierr.Newf(apierr.KindValidation, "Invalid role: %s", *in.Role)
	}

	user, err := s.users.GetByID(ctx, orgID, userID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apierr.NotFound("User not found")
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Role != nil {
		user.Role = *in.Role
	}

	found, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("update user: %w", err))
	}
	if !found {
		return nil, apierr.NotFound("User not found")
	}

	s.recorder.Record(audit.Event{
		ActorUserID:    &actorID,
		OrganizationID: orgID,
		Action:         audit.ActionUserUpdated,
		Resource:       "users/" + userID,
		Details:        map[string]interface{}{"role": string(user.Role)},
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return user, nil
}

// ChangePassword sets a new password after verifying the current one. This is
// a self-service operation: the caller can only change their own password, so
// userID is the authenticated user's id.
func (s *UserService) ChangePassword(ctx context.Context, orgID, userID, currentPassword, newPassword string, meta RequestMeta) error {
	if len(newPassword) < minPasswordLength {
		return apierr.Newf(apierr.KindValidation, "Password must be at least %d characters", minPasswordLength)
	}

	user, err := s.users.GetByID(ctx, orgID, userID)
	if err != nil {
		return apierr.Internal(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return apierr.NotFound("User not found")
	}

	if !auth.CheckPassword(currentPassword, user.PasswordHash) {
		return apierr.Authentication("Current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apierr.Internal(fmt.Errorf("hash password: %w", err))
	}

	found, err := s.users.UpdatePassword(ctx, orgID, userID, hash)
	if err != nil {
		return apierr.Internal(fmt.Errorf("update password: %w", err))
	}
	if !found {
		return apierr.NotFound("User not found")
	}

	s.recorder.Record(audit.Event{
		ActorUserID:    &userID,
		OrganizationID: orgID,
		Action:         audit.ActionPasswordChanged,
		Resource:       "users/" + userID,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return nil
}

// Deactivate soft-deletes the user. The row is kept; logins and token-bearing
// sessions for the user stop working at the next authentication check.
func (s *UserService) Deactivate(ctx context.Context, orgID, actorID, userID string, meta RequestMeta) error {
	found, err := s.users.Deactivate(ctx, orgID, userID)
	if err != nil {
		return apierr.Internal(fmt.Errorf("deactivate user: %w", err))
	}
	if !found {
		return apierr.NotFound("User not found")
	}

	s.recorder.Record(audit.Event{
		ActorUserID:    &actorID,
		OrganizationID: orgID,
		Action:         audit.ActionUserDeactivated,
		Resource:       "users/" + userID,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return nil
}
