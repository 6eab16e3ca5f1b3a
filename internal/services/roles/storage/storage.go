// Package storage defines the persistence contract for project memberships.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/inkroom/inkroom/internal/project/member"
)

var (
	// ErrNotFound indicates no membership record exists for the lookup.
	ErrNotFound = errors.New("membership not found")
	// ErrInvalidRecord indicates a write with missing or malformed fields.
	ErrInvalidRecord = errors.New("invalid membership record")
)

// MembershipRecord stores one (user, project) role assignment.
type MembershipRecord struct {
	ProjectID int64
	UserID    string
	Role      member.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MembershipStore persists project membership roles.
type MembershipStore interface {
	// PutMembership inserts or replaces the role assignment for (project, user).
	PutMembership(ctx context.Context, record MembershipRecord) error
	// GetMembershipRole returns the stored role, or ErrNotFound when the
	// user has no association with the project.
	GetMembershipRole(ctx context.Context, projectID int64, userID string) (member.Role, error)
	// DeleteMembership removes the assignment; deleting a missing record is
	// not an error.
	DeleteMembership(ctx context.Context, projectID int64, userID string) error
	// ListProjectMembers returns all assignments for a project ordered by
	// user id.
	ListProjectMembers(ctx context.Context, projectID int64) ([]MembershipRecord, error)
}
