// Package project provides project and membership value types and pure
// permission checks.
package project

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNameRequired = errors.New("project: name is required")
	ErrNameTooLong  = errors.New("project: name too long")
)

// MaxNameLen caps project names.
const MaxNameLen = 120

// Role is a member's permission level on a project.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleOwner || r == RoleEditor || r == RoleViewer
}

// Project is a workspace project bound to one guided-workflow product
// (value type).
type Project struct {
	ID        string
	OwnerID   string
	Name      string
	Product   string // workflow product ID: "foundry" or "launch"
	Stage     string // current workflow stage slug
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member links a user to a project with a role (value type).
type Member struct {
	ProjectID string
	UserID    string
	Role      Role
	AddedAt   time.Time
}

// Validate checks user-supplied project fields.
// This is a PURE function.
func Validate(p Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if len(p.Name) > MaxNameLen {
		return ErrNameTooLong
	}
	return nil
}

// CanEdit reports whether a role may modify project content.
// This is a PURE function.
func CanEdit(r Role) bool {
	return r == RoleOwner || r == RoleEditor
}

// CanManageMembers reports whether a role may add or remove members.
// This is a PURE function.
func CanManageMembers(r Role) bool {
	return r == RoleOwner
}
