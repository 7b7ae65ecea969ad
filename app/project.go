package app

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aviatehq/aviate/domain/project"
	"github.com/aviatehq/aviate/domain/workflow"
	"github.com/aviatehq/aviate/ports"
	"github.com/rs/zerolog"
)

// ProjectService manages projects, memberships, and workflow stage
// progression.
type ProjectService struct {
	projects ports.ProjectStore
	members  ports.MemberStore
	users    ports.UserStore
	clock    ports.Clock
	idGen    ports.IDGenerator
	logger   zerolog.Logger
}

// ProjectDeps contains dependencies for ProjectService.
type ProjectDeps struct {
	Projects ports.ProjectStore
	Members  ports.MemberStore
	Users    ports.UserStore
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   zerolog.Logger
}

// NewProjectService creates a project service.
func NewProjectService(deps ProjectDeps) *ProjectService {
	return &ProjectService{
		projects: deps.Projects,
		members:  deps.Members,
		users:    deps.Users,
		clock:    deps.Clock,
		idGen:    deps.IDGen,
		logger:   deps.Logger.With().Str("component", "projects").Logger(),
	}
}

// Create starts a new project at the product's first stage and records the
// creator as owner.
func (s *ProjectService) Create(ctx context.Context, ownerID, name, productID string) (project.Project, error) {
	first, err := workflow.FirstStage(productID)
	if err != nil {
		return project.Project{}, err
	}

	now := s.clock.Now()
	p := project.Project{
		ID:        s.idGen.New(),
		OwnerID:   ownerID,
		Name:      name,
		Product:   productID,
		Stage:     first,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := project.Validate(p); err != nil {
		return project.Project{}, err
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return project.Project{}, err
	}
	if err := s.members.Add(ctx, project.Member{
		ProjectID: p.ID,
		UserID:    ownerID,
		Role:      project.RoleOwner,
		AddedAt:   now,
	}); err != nil {
		return project.Project{}, err
	}
	return p, nil
}

// List returns projects the user owns or belongs to.
func (s *ProjectService) List(ctx context.Context, userID string) ([]project.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}

// Get returns a project the user can see.
func (s *ProjectService) Get(ctx context.Context, userID, projectID string) (project.Project, error) {
	p, _, err := s.visible(ctx, userID, projectID)
	return p, err
}

// Rename changes a project's name. Requires edit permission.
func (s *ProjectService) Rename(ctx context.Context, userID, projectID, name string) (project.Project, error) {
	p, role, err := s.visible(ctx, userID, projectID)
	if err != nil {
		return project.Project{}, err
	}
	if !project.CanEdit(role) {
		return project.Project{}, ErrForbidden
	}

	p.Name = name
	p.UpdatedAt = s.clock.Now()
	if err := project.Validate(p); err != nil {
		return project.Project{}, err
	}
	if err := s.projects.Update(ctx, p); err != nil {
		return project.Project{}, err
	}
	return p, nil
}

// Advance moves a project to the next workflow stage. Requires edit
// permission; ErrFinalStage when the project is already at the last stage.
func (s *ProjectService) Advance(ctx context.Context, userID, projectID string) (project.Project, error) {
	p, role, err := s.visible(ctx, userID, projectID)
	if err != nil {
		return project.Project{}, err
	}
	if !project.CanEdit(role) {
		return project.Project{}, ErrForbidden
	}

	next, err := workflow.Advance(p.Product, p.Stage)
	if err != nil {
		return project.Project{}, err
	}

	p.Stage = next
	p.UpdatedAt = s.clock.Now()
	if err := s.projects.Update(ctx, p); err != nil {
		return project.Project{}, err
	}
	s.logger.Info().Str("project", p.ID).Str("stage", next).Msg("project advanced")
	return p, nil
}

// SetStage moves a project to any stage of its workflow, including earlier
// ones. Owner only; editors may only move forward via Advance.
func (s *ProjectService) SetStage(ctx context.Context, userID, projectID, stage string) (project.Project, error) {
	p, _, err := s.visible(ctx, userID, projectID)
	if err != nil {
		return project.Project{}, err
	}
	if p.OwnerID != userID {
		return project.Project{}, ErrForbidden
	}
	if !workflow.ValidStage(p.Product, stage) {
		return project.Project{}, workflow.ErrUnknownStage
	}

	p.Stage = stage
	p.UpdatedAt = s.clock.Now()
	if err := s.projects.Update(ctx, p); err != nil {
		return project.Project{}, err
	}
	return p, nil
}

// Delete removes a project and its memberships. Owner only.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID string) error {
	p, _, err := s.visible(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if p.OwnerID != userID {
		return ErrForbidden
	}
	return s.projects.Delete(ctx, projectID)
}

// Members lists a project's memberships.
func (s *ProjectService) Members(ctx context.Context, userID, projectID string) ([]project.Member, error) {
	if _, _, err := s.visible(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.members.List(ctx, projectID)
}

// AddMember invites a user by email with a role. Requires member-management
// permission.
func (s *ProjectService) AddMember(ctx context.Context, userID, projectID, email string, role project.Role) (project.Member, error) {
	_, callerRole, err := s.visible(ctx, userID, projectID)
	if err != nil {
		return project.Member{}, err
	}
	if !project.CanManageMembers(callerRole) {
		return project.Member{}, ErrForbidden
	}
	if !project.ValidRole(role) || role == project.RoleOwner {
		return project.Member{}, errors.New("invalid member role")
	}

	invitee, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Member{}, ErrNotFound
	}
	if err != nil {
		return project.Member{}, err
	}

	m := project.Member{
		ProjectID: projectID,
		UserID:    invitee.ID,
		Role:      role,
		AddedAt:   s.clock.Now(),
	}
	if err := s.members.Add(ctx, m); err != nil {
		return project.Member{}, err
	}
	return m, nil
}

// RemoveMember removes a membership. Requires member-management permission;
// the owner cannot be removed.
func (s *ProjectService) RemoveMember(ctx context.Context, userID, projectID, memberID string) error {
	p, callerRole, err := s.visible(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if !project.CanManageMembers(callerRole) {
		return ErrForbidden
	}
	if memberID == p.OwnerID {
		return ErrForbidden
	}
	return s.members.Remove(ctx, projectID, memberID)
}

// visible loads a project and the caller's role on it, or ErrNotFound when
// the project is absent or the caller has no membership.
func (s *ProjectService) visible(ctx context.Context, userID, projectID string) (project.Project, project.Role, error) {
	p, err := s.projects.Get(ctx, projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Project{}, "", ErrNotFound
	}
	if err != nil {
		return project.Project{}, "", err
	}
	if p.OwnerID == userID {
		return p, project.RoleOwner, nil
	}
	m, err := s.members.Get(ctx, projectID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Project{}, "", ErrNotFound
	}
	if err != nil {
		return project.Project{}, "", err
	}
	return p, m.Role, nil
}
