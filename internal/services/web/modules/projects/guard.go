package projects

import (
	"github.com/a-h/templ"
)

// GuardRequirements names the role capabilities a fragment demands. Each
// flag maps to the derived capability that role implies, so an owner
// satisfies every requirement and a writer satisfies RequireWriter and
// RequireViewer.
type GuardRequirements struct {
	RequireOwner  bool
	RequireEditor bool
	RequireWriter bool
	RequireViewer bool
}

// Satisfied reports whether the permission state meets every set flag.
// With no flags set it reports true: an unconstrained guard renders its
// children. Callers that want deny-by-default must set a flag.
func (g GuardRequirements) Satisfied(state PermissionState) bool {
	if g.RequireOwner && !state.Caps.IsOwner {
		return false
	}
	if g.RequireEditor && !state.Caps.CanEdit {
		return false
	}
	if g.RequireWriter && !state.Caps.CanWrite {
		return false
	}
	if g.RequireViewer && !state.Caps.CanView {
		return false
	}
	return true
}

// Guard renders children when the settled state satisfies the
// requirements, fallback otherwise. While the state is loading the
// fallback renders; loading is unknown, never denied, so no privileged
// fragment appears before settlement.
func Guard(state PermissionState, requirements GuardRequirements, children, fallback templ.Component) templ.Component {
	if fallback == nil {
		fallback = templ.NopComponent
	}
	if children == nil {
		children = templ.NopComponent
	}
	if state.Loading {
		return fallback
	}
	if !requirements.Satisfied(state) {
		return fallback
	}
	return children
}

// CanEdit renders children only for roles with edit capability.
func CanEdit(state PermissionState, children, fallback templ.Component) templ.Component {
	return Guard(state, GuardRequirements{RequireEditor: true}, children, fallback)
}

// CanWrite renders children only for roles with write capability.
func CanWrite(state PermissionState, children, fallback templ.Component) templ.Component {
	return Guard(state, GuardRequirements{RequireWriter: true}, children, fallback)
}

// CanManage renders children only for the project owner.
func CanManage(state PermissionState, children, fallback templ.Component) templ.Component {
	return Guard(state, GuardRequirements{RequireOwner: true}, children, fallback)
}

// CanView renders children only for project members.
func CanView(state PermissionState, children, fallback templ.Component) templ.Component {
	return Guard(state, GuardRequirements{RequireViewer: true}, children, fallback)
}
