package projects

import (
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/inkroom/inkroom/internal/project/member"
	"github.com/inkroom/inkroom/internal/services/web/module"
	apperrors "github.com/inkroom/inkroom/internal/services/web/platform/errors"
	"github.com/inkroom/inkroom/internal/services/web/platform/i18n"
	"github.com/inkroom/inkroom/internal/services/web/routepath"
	"github.com/inkroom/inkroom/internal/services/web/templates"
)

// Handlers serves the project pages.
type Handlers struct {
	resolver      *Resolver
	service       *Service
	resolveUserID module.ResolveUserID
	appName       string
}

// NewHandlers builds the page handlers.
func NewHandlers(resolver *Resolver, service *Service, resolveUserID module.ResolveUserID, appName string) *Handlers {
	return &Handlers{resolver: resolver, service: service, resolveUserID: resolveUserID, appName: appName}
}

func (h *Handlers) userID(r *http.Request) string {
	if h.resolveUserID == nil {
		return ""
	}
	return strings.TrimSpace(h.resolveUserID(r))
}

func projectIDFromRequest(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("projectID"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.EK(apperrors.KindInvalidInput, "project.invalid_id", "invalid project id")
	}
	return id, nil
}

// Index renders the projects entry page.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	loc, lang := i18n.ResolveLocalizer(r)
	title := i18n.Localize(loc, "project.index.title", "Projects")
	body := templates.Group(
		templates.Heading(title),
		templates.Paragraph(i18n.Localize(loc, "project.index.hint",
			"Open a project link you have been invited to.")),
	)
	h.renderPage(w, r, lang, title, body)
}

// Overview renders the project landing page. The role badge and the
// guarded action links derive entirely from the settled permission state.
func (h *Handlers) Overview(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDFromRequest(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	loc, lang := i18n.ResolveLocalizer(r)
	state := h.resolver.Resolve(r.Context(), h.userID(r), projectID)

	badge := templates.RoleBadge(RoleBadgeView(loc, state.Role))
	title := i18n.Localize(loc, "project.overview.title", "Project %d", projectID)

	body := templates.Group(
		templates.Heading(title),
		badge,
		CanView(state,
			link(routepath.AppProjectOutline(projectID),
				i18n.Localize(loc, "project.overview.outline", "Outline")),
			templates.Paragraph(i18n.Localize(loc, "project.overview.no_access",
				"You do not have access to this project.")),
		),
		CanManage(state,
			link(routepath.AppProjectSettings(projectID),
				i18n.Localize(loc, "project.overview.settings", "Settings")),
			nil,
		),
	)
	h.renderPage(w, r, lang, title, body)
}

// Outline renders the writing outline. Members with write capability see
// the editing affordances; viewers get the read-only copy.
func (h *Handlers) Outline(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDFromRequest(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	loc, lang := i18n.ResolveLocalizer(r)
	state := h.resolver.Resolve(r.Context(), h.userID(r), projectID)
	if !state.Caps.CanView {
		h.renderError(w, r, apperrors.EK(apperrors.KindForbidden, "project.members.forbidden", "no project access"))
		return
	}

	title := i18n.Localize(loc, "project.outline.title", "Outline")
	body := templates.Group(
		templates.Heading(title),
		CanWrite(state,
			templates.Paragraph(i18n.Localize(loc, "project.outline.write_hint",
				"Drag chapters to reorder, or add a new scene.")),
			templates.Paragraph(i18n.Localize(loc, "project.outline.read_only",
				"You are viewing this outline in read-only mode.")),
		),
		CanEdit(state,
			templates.Paragraph(i18n.Localize(loc, "project.outline.edit_hint",
				"Structural changes apply to every draft.")),
			nil,
		),
	)
	h.renderPage(w, r, lang, title, body)
}

// Settings renders member management for the owner.
func (h *Handlers) Settings(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDFromRequest(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	loc, lang := i18n.ResolveLocalizer(r)
	actorID := h.userID(r)
	state := h.resolver.Resolve(r.Context(), actorID, projectID)
	if !state.Caps.CanManage {
		h.renderError(w, r, apperrors.EK(apperrors.KindForbidden, "project.members.forbidden", "owner access required"))
		return
	}

	members, err := h.service.Members(r.Context(), projectID, actorID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	title := i18n.Localize(loc, "project.settings.title", "Project settings")
	components := []templ.Component{templates.Heading(title)}
	for _, m := range members {
		components = append(components, memberRow(loc, m))
	}
	h.renderPage(w, r, lang, title, templates.Group(components...))
}

// UpdateMember handles the member role form post.
func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDFromRequest(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, apperrors.EK(apperrors.KindInvalidInput, "project.members.bad_form", "invalid form"))
		return
	}
	role, ok := member.NormalizeRole(r.PostFormValue("role"))
	if !ok {
		h.renderError(w, r, apperrors.EK(apperrors.KindInvalidInput, "project.members.invalid_role", "unrecognized role"))
		return
	}
	err = h.service.SetMemberRole(r.Context(), projectID, h.userID(r), r.PostFormValue("user_id"), role)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, routepath.AppProjectSettings(projectID), http.StatusSeeOther)
}

// RemoveMember handles the member removal form post.
func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	projectID, err := projectIDFromRequest(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, apperrors.EK(apperrors.KindInvalidInput, "project.members.bad_form", "invalid form"))
		return
	}
	err = h.service.RemoveMember(r.Context(), projectID, h.userID(r), r.PostFormValue("user_id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, routepath.AppProjectSettings(projectID), http.StatusSeeOther)
}

func (h *Handlers) renderPage(w http.ResponseWriter, r *http.Request, lang, title string, body templ.Component) {
	page := templates.PageContext{Lang: lang, CurrentPath: r.URL.Path, AppName: h.appName}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(page, title, body).Render(r.Context(), w); err != nil {
		log.Printf("projects: render %s: %v", r.URL.Path, err)
	}
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	loc, lang := i18n.ResolveLocalizer(r)
	status := apperrors.HTTPStatus(err)
	message := i18n.Localize(loc, apperrors.LocalizationKey(err), "Something went wrong.")
	if status >= http.StatusInternalServerError {
		log.Printf("projects: %s %s: %v", r.Method, r.URL.Path, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	body := templates.Group(
		templates.Heading(i18n.Localize(loc, "project.error.title", "Unable to continue")),
		templates.Paragraph(message),
	)
	if renderErr := templates.Page(templates.PageContext{Lang: lang, AppName: h.appName}, "Error", body).Render(r.Context(), w); renderErr != nil {
		log.Printf("projects: render error page: %v", renderErr)
	}
}

func link(href, label string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<p><a href=%q>%s</a></p>`, href, html.EscapeString(label))
		return err
	})
}

func memberRow(loc i18n.Localizer, m Member) templ.Component {
	badge := RoleBadgeView(loc, m.Role)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="member-row"><span class="member-id">%s</span><span class="role-badge role-badge--%s">%s</span></div>`,
			html.EscapeString(m.UserID), html.EscapeString(badge.Category), html.EscapeString(badge.Label),
		)
		return err
	})
}
