package projects

import (
	"context"
	"sync"

	"github.com/inkroom/inkroom/internal/project/authz"
	"github.com/inkroom/inkroom/internal/project/member"
)

// PermissionState is the per-(user, project) view of resolved permissions.
//
// While Loading is true every derived capability is unknown, not denied;
// guards must render their fallback rather than a denied state. Once
// settled, Caps is derived from Role through the capability table and the
// state is only read, never mutated.
type PermissionState struct {
	Role    member.Role
	Loading bool
	Caps    authz.CapabilitySet
}

// LoadingState is the pre-settlement permission state.
func LoadingState() PermissionState {
	return PermissionState{Loading: true}
}

// SettledState builds the settled state for a role.
func SettledState(role member.Role) PermissionState {
	if !role.Known() {
		role = member.RoleNone
	}
	return PermissionState{Role: role, Caps: authz.Derive(role)}
}

// Resolver resolves a user's permission state for a project.
//
// The gateway is the only writer of authoritative roles; resolution is
// purely informational. Any fetch failure settles to no-role so a page can
// always render its fallback rather than hanging on a loading state.
type Resolver struct {
	gateway RolesGateway
	cache   *roleCache
}

// NewResolver builds a resolver over the roles gateway. The cache may be
// nil to disable settled-role caching.
func NewResolver(gateway RolesGateway, cache *roleCache) *Resolver {
	return &Resolver{gateway: gateway, cache: cache}
}

// Resolve fetches and settles the permission state for (user, project).
// It always returns a settled state: resolution failures and unrecognized
// roles fail closed to no-role.
func (r *Resolver) Resolve(ctx context.Context, userID string, projectID int64) PermissionState {
	if r == nil || r.gateway == nil || projectID <= 0 {
		return SettledState(member.RoleNone)
	}
	if role, ok := r.cache.Get(projectID, userID); ok {
		return SettledState(role)
	}

	role, err := r.gateway.FetchProjectRole(ctx, projectID, userID)
	if err != nil {
		return SettledState(member.RoleNone)
	}
	r.cache.Put(projectID, userID, role)
	return SettledState(role)
}

// Invalidate drops any cached settled role for (user, project). Membership
// mutations call this so a stale capability set never outlives a role
// change.
func (r *Resolver) Invalidate(projectID int64, userID string) {
	if r == nil {
		return
	}
	r.cache.Invalidate(projectID, userID)
}

// Watch is one consumer-side resolution lifecycle.
//
// A watch observes at most one loading→settled transition per project id.
// When the project changes before settlement the superseded fetch keeps
// running but its result is discarded on arrival, so only the latest
// requested project's permissions are ever observable. After Close no
// state mutation or notification happens.
type Watch struct {
	resolver *Resolver
	onChange func(PermissionState)

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      PermissionState
	closed     bool
}

// NewWatch builds a resolution lifecycle. onChange, when non-nil, fires on
// every observable transition (loading, then settled) under no lock.
func (r *Resolver) NewWatch(onChange func(PermissionState)) *Watch {
	return &Watch{
		resolver: r,
		onChange: onChange,
		state:    SettledState(member.RoleNone),
	}
}

// SetProject switches the watch to a project and begins resolution.
// Calling it again before settlement discards the in-flight result.
func (w *Watch) SetProject(ctx context.Context, userID string, projectID int64) {
	if w == nil {
		return
	}
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.generation++
	generation := w.generation
	if w.cancel != nil {
		w.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.state = LoadingState()
	notify := w.onChange
	w.mu.Unlock()

	if notify != nil {
		notify(LoadingState())
	}

	go func() {
		defer cancel()
		settled := w.resolver.Resolve(fetchCtx, userID, projectID)
		w.apply(generation, settled)
	}()
}

// apply installs a settled state if its generation is still current.
func (w *Watch) apply(generation uint64, settled PermissionState) {
	w.mu.Lock()
	if w.closed || generation != w.generation {
		w.mu.Unlock()
		return
	}
	w.state = settled
	notify := w.onChange
	w.mu.Unlock()

	if notify != nil {
		notify(settled)
	}
}

// State returns the current permission state.
func (w *Watch) State() PermissionState {
	if w == nil {
		return SettledState(member.RoleNone)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Close disposes the lifecycle. In-flight resolutions are cancelled and
// their results discarded.
func (w *Watch) Close() {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.closed = true
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
