// Package note provides note value types and pure validation.
package note

import (
	"errors"
	"strings"
	"time"
)

// Limits for user-supplied fields.
const (
	MaxTitleLen = 200
	MaxBodyLen  = 50_000
)

var (
	ErrTitleRequired = errors.New("note: title is required")
	ErrTitleTooLong  = errors.New("note: title too long")
	ErrBodyTooLong   = errors.New("note: body too long")
)

// Note is a workspace note (value type).
type Note struct {
	ID        string
	UserID    string
	ProjectID string // "" = not attached to a project
	Title     string
	Body      string
	Pinned    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks user-supplied fields.
// This is a PURE function.
func Validate(n Note) error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrTitleRequired
	}
	if len(n.Title) > MaxTitleLen {
		return ErrTitleTooLong
	}
	if len(n.Body) > MaxBodyLen {
		return ErrBodyTooLong
	}
	return nil
}
