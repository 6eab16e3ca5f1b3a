package projects

import (
	"strconv"
	"sync"
	"time"

	"github.com/inkroom/inkroom/internal/project/member"
)

// defaultRoleTTL bounds how long a settled role is reused before the roles
// service is asked again.
const defaultRoleTTL = 30 * time.Second

type cachedRole struct {
	role      member.Role
	expiresAt time.Time
}

// roleCache is a TTL cache of settled roles keyed by (project, user).
// Mutations go through Invalidate so a role change is visible on the next
// resolution rather than after TTL expiry.
type roleCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]cachedRole
}

func newRoleCache(ttl time.Duration) *roleCache {
	if ttl <= 0 {
		ttl = defaultRoleTTL
	}
	return &roleCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedRole),
	}
}

func cacheKey(projectID int64, userID string) string {
	return "role:project:" + strconv.FormatInt(projectID, 10) + ":user:" + userID
}

func (c *roleCache) Get(projectID int64, userID string) (member.Role, bool) {
	if c == nil {
		return member.RoleNone, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[cacheKey(projectID, userID)]
	if !ok {
		return member.RoleNone, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, cacheKey(projectID, userID))
		return member.RoleNone, false
	}
	return entry.role, true
}

func (c *roleCache) Put(projectID int64, userID string, role member.Role) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(projectID, userID)] = cachedRole{
		role:      role,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *roleCache) Invalidate(projectID int64, userID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(projectID, userID))
}
