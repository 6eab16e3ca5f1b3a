package authz

import "github.com/inkroom/inkroom/internal/project/member"

// CapabilitySet holds the boolean capabilities derived from one role.
type CapabilitySet struct {
	IsOwner   bool
	IsEditor  bool
	CanView   bool
	CanWrite  bool
	CanEdit   bool
	CanManage bool
}

// Capability identifies one derived capability for requirement checks.
type Capability string

const (
	CapabilityView   Capability = "view"
	CapabilityWrite  Capability = "write"
	CapabilityEdit   Capability = "edit"
	CapabilityManage Capability = "manage"
)

// Decision reports an allow/deny outcome with a stable reason code.
type Decision struct {
	Allowed    bool
	ReasonCode string
}

// Reason codes attached to capability decisions.
const (
	ReasonAllowRole        = "allow.role_capability"
	ReasonDenyRoleRequired = "deny.role_capability_required"
	ReasonDenyNoMembership = "deny.no_membership"
)

// Derive maps a role to its capability set.
//
// Capability table:
//
//	role    isOwner isEditor canView canWrite canEdit canManage
//	owner   yes     yes      yes     yes      yes     yes
//	editor  no      yes      yes     yes      yes     no
//	writer  no      no       yes     yes      no      no
//	viewer  no      no       yes     no       no      no
//	none    no      no       no      no       no      no
//
// Any role outside the table derives the none row.
func Derive(role member.Role) CapabilitySet {
	switch role {
	case member.RoleOwner:
		return CapabilitySet{IsOwner: true, IsEditor: true, CanView: true, CanWrite: true, CanEdit: true, CanManage: true}
	case member.RoleEditor:
		return CapabilitySet{IsEditor: true, CanView: true, CanWrite: true, CanEdit: true}
	case member.RoleWriter:
		return CapabilitySet{CanView: true, CanWrite: true}
	case member.RoleViewer:
		return CapabilitySet{CanView: true}
	default:
		return CapabilitySet{}
	}
}

// Has reports whether the set grants the capability.
func (c CapabilitySet) Has(capability Capability) bool {
	switch capability {
	case CapabilityView:
		return c.CanView
	case CapabilityWrite:
		return c.CanWrite
	case CapabilityEdit:
		return c.CanEdit
	case CapabilityManage:
		return c.CanManage
	default:
		return false
	}
}

// Can reports whether the role grants the capability, with a reason code
// suitable for deny logging.
func Can(role member.Role, capability Capability) Decision {
	if !role.Known() {
		return Decision{ReasonCode: ReasonDenyNoMembership}
	}
	if Derive(role).Has(capability) {
		return Decision{Allowed: true, ReasonCode: ReasonAllowRole}
	}
	return Decision{ReasonCode: ReasonDenyRoleRequired}
}
