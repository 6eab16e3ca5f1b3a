// Package member defines the project membership role labels shared by the
// roles service and the web layer.
package member

import "strings"

// Role identifies the privilege tier a member holds on a project.
type Role string

const (
	RoleNone   Role = ""
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleWriter Role = "writer"
	RoleViewer Role = "viewer"
)

// NormalizeRole parses a role label into a canonical value. Unrecognized
// labels report false and map to RoleNone so callers fail closed.
func NormalizeRole(value string) (Role, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return RoleNone, false
	}
	switch strings.ToLower(trimmed) {
	case "owner", "role_owner":
		return RoleOwner, true
	case "editor", "role_editor":
		return RoleEditor, true
	case "writer", "role_writer":
		return RoleWriter, true
	case "viewer", "role_viewer":
		return RoleViewer, true
	default:
		return RoleNone, false
	}
}

// Known reports whether the role is one of the recognized tiers.
func (r Role) Known() bool {
	switch r {
	case RoleOwner, RoleEditor, RoleWriter, RoleViewer:
		return true
	default:
		return false
	}
}
