package sqlite

import (
	"context"

	"github.com/aviatehq/aviate/domain/project"
	"github.com/aviatehq/aviate/ports"
)

// ProjectStore implements ports.ProjectStore with SQLite.
type ProjectStore struct {
	db *DB
}

// NewProjectStore creates a new SQLite project store.
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, owner_id, name, product, stage, created_at, updated_at`

// Get retrieves a project by ID.
func (s *ProjectStore) Get(ctx context.Context, id string) (project.Project, error) {
	var p project.Project
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Product, &p.Stage, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// ListByUser returns projects the user owns or is a member of.
func (s *ProjectStore) ListByUser(ctx context.Context, userID string) ([]project.Project, error) {
	rows, err := s.db.DB.QueryContext(ctx, `
		SELECT DISTINCT p.id, p.owner_id, p.name, p.product, p.stage, p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN project_members m ON m.project_id = p.id
		WHERE p.owner_id = ? OR m.user_id = ?
		ORDER BY p.updated_at DESC
	`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Product, &p.Stage,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Create stores a new project.
func (s *ProjectStore) Create(ctx context.Context, p project.Project) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO projects (id, owner_id, name, product, stage, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.OwnerID, p.Name, p.Product, p.Stage, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update modifies an existing project.
func (s *ProjectStore) Update(ctx context.Context, p project.Project) error {
	_, err := s.db.DB.ExecContext(ctx, `
		UPDATE projects SET name = ?, product = ?, stage = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, p.Product, p.Stage, p.ID)
	return err
}

// Delete removes a project and its memberships.
func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM project_members WHERE project_id = ?", id); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Ensure interface compliance.
var _ ports.ProjectStore = (*ProjectStore)(nil)

// MemberStore implements ports.MemberStore with SQLite.
type MemberStore struct {
	db *DB
}

// NewMemberStore creates a new SQLite member store.
func NewMemberStore(db *DB) *MemberStore {
	return &MemberStore{db: db}
}

// Get retrieves a membership.
func (s *MemberStore) Get(ctx context.Context, projectID, userID string) (project.Member, error) {
	var m project.Member
	err := s.db.DB.QueryRowContext(ctx, `
		SELECT project_id, user_id, role, added_at FROM project_members
		WHERE project_id = ? AND user_id = ?
	`, projectID, userID).Scan(&m.ProjectID, &m.UserID, &m.Role, &m.AddedAt)
	return m, err
}

// List returns all members of a project.
func (s *MemberStore) List(ctx context.Context, projectID string) ([]project.Member, error) {
	rows, err := s.db.DB.QueryContext(ctx, `
		SELECT project_id, user_id, role, added_at FROM project_members
		WHERE project_id = ? ORDER BY added_at ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []project.Member
	for rows.Next() {
		var m project.Member
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.AddedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Add stores a membership. Re-adding an existing member updates the role.
func (s *MemberStore) Add(ctx context.Context, m project.Member) error {
	_, err := s.db.DB.ExecContext(ctx, `
		INSERT INTO project_members (project_id, user_id, role, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(project_id, user_id) DO UPDATE SET role = excluded.role
	`, m.ProjectID, m.UserID, m.Role, m.AddedAt)
	return err
}

// Remove deletes a membership.
func (s *MemberStore) Remove(ctx context.Context, projectID, userID string) error {
	_, err := s.db.DB.ExecContext(ctx,
		"DELETE FROM project_members WHERE project_id = ? AND user_id = ?", projectID, userID)
	return err
}

// Ensure interface compliance.
var _ ports.MemberStore = (*MemberStore)(nil)
