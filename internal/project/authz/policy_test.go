package authz

import (
	"testing"

	"github.com/inkroom/inkroom/internal/project/member"
)

func TestDeriveTable(t *testing.T) {
	tests := []struct {
		name string
		role member.Role
		want CapabilitySet
	}{
		{
			name: "owner",
			role: member.RoleOwner,
			want: CapabilitySet{IsOwner: true, IsEditor: true, CanView: true, CanWrite: true, CanEdit: true, CanManage: true},
		},
		{
			name: "editor",
			role: member.RoleEditor,
			want: CapabilitySet{IsEditor: true, CanView: true, CanWrite: true, CanEdit: true},
		},
		{
			name: "writer",
			role: member.RoleWriter,
			want: CapabilitySet{CanView: true, CanWrite: true},
		},
		{
			name: "viewer",
			role: member.RoleViewer,
			want: CapabilitySet{CanView: true},
		},
		{
			name: "none",
			role: member.RoleNone,
			want: CapabilitySet{},
		},
		{
			name: "unrecognized",
			role: member.Role("superadmin"),
			want: CapabilitySet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Derive(tt.role); got != tt.want {
				t.Fatalf("Derive(%q) = %+v, want %+v", tt.role, got, tt.want)
			}
		})
	}
}

// Owner implies editor implies write implies view, for every role.
func TestDeriveEscalationChain(t *testing.T) {
	roles := []member.Role{member.RoleOwner, member.RoleEditor, member.RoleWriter, member.RoleViewer, member.RoleNone}
	for _, role := range roles {
		caps := Derive(role)
		if caps.IsOwner && !caps.IsEditor {
			t.Fatalf("role %q: owner without editor", role)
		}
		if caps.IsEditor && !caps.CanWrite {
			t.Fatalf("role %q: editor without write", role)
		}
		if caps.CanWrite && !caps.CanView {
			t.Fatalf("role %q: write without view", role)
		}
	}
}

// Management is owner-exclusive.
func TestDeriveManageMatchesOwner(t *testing.T) {
	roles := []member.Role{member.RoleOwner, member.RoleEditor, member.RoleWriter, member.RoleViewer, member.RoleNone, member.Role("bogus")}
	for _, role := range roles {
		caps := Derive(role)
		if caps.CanManage != caps.IsOwner {
			t.Fatalf("role %q: CanManage = %v, IsOwner = %v", role, caps.CanManage, caps.IsOwner)
		}
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		name       string
		role       member.Role
		capability Capability
		allowed    bool
		reasonCode string
	}{
		{
			name:       "owner can manage",
			role:       member.RoleOwner,
			capability: CapabilityManage,
			allowed:    true,
			reasonCode: ReasonAllowRole,
		},
		{
			name:       "owner can edit via escalation",
			role:       member.RoleOwner,
			capability: CapabilityEdit,
			allowed:    true,
			reasonCode: ReasonAllowRole,
		},
		{
			name:       "editor cannot manage",
			role:       member.RoleEditor,
			capability: CapabilityManage,
			allowed:    false,
			reasonCode: ReasonDenyRoleRequired,
		},
		{
			name:       "writer cannot edit",
			role:       member.RoleWriter,
			capability: CapabilityEdit,
			allowed:    false,
			reasonCode: ReasonDenyRoleRequired,
		},
		{
			name:       "viewer can view",
			role:       member.RoleViewer,
			capability: CapabilityView,
			allowed:    true,
			reasonCode: ReasonAllowRole,
		},
		{
			name:       "no membership denies view",
			role:       member.RoleNone,
			capability: CapabilityView,
			allowed:    false,
			reasonCode: ReasonDenyNoMembership,
		},
		{
			name:       "unrecognized role fails closed",
			role:       member.Role("superadmin"),
			capability: CapabilityWrite,
			allowed:    false,
			reasonCode: ReasonDenyNoMembership,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Can(tt.role, tt.capability)
			if decision.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v", decision.Allowed, tt.allowed)
			}
			if decision.ReasonCode != tt.reasonCode {
				t.Fatalf("reason = %q, want %q", decision.ReasonCode, tt.reasonCode)
			}
		})
	}
}

func TestHasUnknownCapability(t *testing.T) {
	caps := Derive(member.RoleOwner)
	if caps.Has(Capability("deploy")) {
		t.Fatal("expected unknown capability to be denied")
	}
}
