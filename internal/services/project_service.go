package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/saasbase/saasbase/internal/apierr"
	"github.com/saasbase/saasbase/internal/audit"
	"github.com/saasbase/saasbase/internal/db/models"
	"github.com/saasbase/saasbase/internal/db/repositories"
)

// ProjectService manages projects within an organization. All operations are
// tenant-scoped; a project in another organization is indistinguishable from
// one that does not exist.
type ProjectService struct {
	projects *repositories.ProjectRepository
	recorder *audit.Recorder
}

// NewProjectService creates a new project service
func NewProjectService(projects *repositories.ProjectRepository, recorder *audit.Recorder) *ProjectService {
	return &ProjectService{projects: projects, recorder: recorder}
}

// Create adds a project. Names are unique per organization among active
// projects, enforced with a pre-insert lookup.
func (s *ProjectService) Create(ctx context.Context, orgID, actorID, name, description string, meta RequestMeta) (*models.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apierr.Validation("Project name is required")
	}

	existing, err := s.projects.GetByName(ctx, orgID, name)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("check project name: %w", err))
	}
	if existing != nil {
		return nil, apierr.Conflict("A project with this name already exists")
	}

	project := &models.Project{
		OrganizationID: orgID,
		Name:           name,
		Description:    description,
		CreatedBy:      &actorID,
		IsActive:       true,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apierr.Internal(fmt.Errorf("create project: %w", err))
	}

	s.recorder.Record(audit.Event{
		ActorUserID:    &actorID,
		OrganizationID: orgID,
		Action:         audit.ActionProjectCreated,
		Resource:       "projects/" + project.ID,
		Details:        map[string]interface{}{"name": name},
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return project, nil
}

// Get returns one active project in the organization.
func (s *ProjectService) Get(ctx context.Context, orgID, projectID string) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, orgID, projectID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("get project: %w", err))
	}
	if project == nil {
		return nil, apierr.NotFound("Project not found")
	}
	return project, nil
}

// List returns active projects in the organization, newest first.
func (s *ProjectService) List(ctx context.Context, orgID string, limit, offset int) ([]*models.Project, error) {
	limit, offset = clampPage(limit, offset)
	projects, err := s.projects.List(ctx, orgID, limit, offset)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list projects: %w", err))
	}
	return projects, nil
}

// UpdateProjectInput is the payload for Update. Nil fields are left unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// Update modifies a project's name or description.
func (s *ProjectService) Update(ctx context.Context, orgID, actorID, projectID string, in UpdateProjectInput, meta RequestMeta) (*models.Project, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, apierr.Validation("Project name cannot be empty")
	}

	project, err := s.projects.GetByID(ctx, orgID, projectID)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("get project: %w", err))
	}
	if project == nil {
		return nil, apierr.NotFound("Project not found")
	}

	if in.Name != nil && *in.Name != project.Name {
		// Renaming must not collide with another active project.
		existing, err := s.projects.GetByName(ctx, orgID, *in.Name)
		if err != nil {
			return nil, apierr.Internal(fmt.Errorf("check project name: %w", err))
		}
		if existing != nil && existing.ID != projectID {
			return nil, apierr.Conflict("A project with this name already exists")
		}
		project.Name = *in.Name
	}
	if in.Description != nil {
		project.Description = *in.Description
	}

	found, err := s.projects.Update(ctx, project)
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("update project: %w", err))
	}
	if !found {
		return nil, apierr.NotFound("Project not found")
	}

	s.recorder.Record(audit.Event{
		ActorUserID:    &actorID,
		OrganizationID: orgID,
		Action:         audit.ActionProjectUpdated,
		Resource:       "projects/" + projectID,
		Details:        map[string]interface{}{"name": project.Name},
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return project, nil
}

// Delete soft-deletes the project.
func (s *ProjectService) Delete(ctx context.Context, orgID, actorID, projectID string, meta RequestMeta) error {
	found, err := s.projects.SoftDelete(ctx, orgID, projectID)
	if err != nil {
		return apierr.Internal(fmt.Errorf("delete project: %w", err))
	}
	if !found {
		return apierr.NotFound("Project not found")
	}

	s.recorder.Record(audit.Event{
		ActorUserID:    &actorID,
		OrganizationID: orgID,
		Action:         audit.ActionProjectDeleted,
		Resource:       "projects/" + projectID,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
	})

	return nil
}
