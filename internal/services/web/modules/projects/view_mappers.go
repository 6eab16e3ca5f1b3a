package projects

import (
	"github.com/inkroom/inkroom/internal/project/member"
	"github.com/inkroom/inkroom/internal/services/web/platform/i18n"
	"github.com/inkroom/inkroom/internal/services/web/templates"
)

// badgeFallbackCategory styles roles the presentation layer does not
// recognize. The badge always renders something deterministic.
const badgeFallbackCategory = "guest"

// RoleBadgeView maps a membership role to its badge presentation. Unknown
// roles map to the guest category with localized guest copy.
func RoleBadgeView(loc i18n.Localizer, role member.Role) templates.RoleBadgeView {
	switch role {
	case member.RoleOwner:
		return templates.RoleBadgeView{
			Category: "owner",
			Label:    i18n.Localize(loc, "project.badge.owner", "Owner"),
		}
	case member.RoleEditor:
		return templates.RoleBadgeView{
			Category: "editor",
			Label:    i18n.Localize(loc, "project.badge.editor", "Editor"),
		}
	case member.RoleWriter:
		return templates.RoleBadgeView{
			Category: "writer",
			Label:    i18n.Localize(loc, "project.badge.writer", "Writer"),
		}
	case member.RoleViewer:
		return templates.RoleBadgeView{
			Category: "viewer",
			Label:    i18n.Localize(loc, "project.badge.viewer", "Viewer"),
		}
	default:
		return templates.RoleBadgeView{
			Category: badgeFallbackCategory,
			Label:    i18n.Localize(loc, "project.badge.guest", "Guest"),
		}
	}
}
