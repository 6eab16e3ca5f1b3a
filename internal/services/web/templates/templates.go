// Package templates holds the shared templ components for web pages.
package templates

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/inkroom/inkroom/internal/services/web/platform/i18n"
)

// PageContext provides shared layout context for pages.
type PageContext struct {
	Lang        string
	Loc         i18n.Localizer
	CurrentPath string
	UserName    string
	AppName     string
}

// Page wraps a body component in the application shell.
func Page(page PageContext, title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := page.Lang
		if lang == "" {
			lang = "en-US"
		}
		appName := page.AppName
		if appName == "" {
			appName = "Inkroom"
		}
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang=%q><head><meta charset="utf-8"><title>%s | %s</title></head><body>`,
			lang, html.EscapeString(title), html.EscapeString(appName),
		); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// Heading renders a page heading.
func Heading(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<h1>%s</h1>", html.EscapeString(text))
		return err
	})
}

// Paragraph renders one paragraph of text.
func Paragraph(text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<p>%s</p>", html.EscapeString(text))
		return err
	})
}

// Group renders components in sequence.
func Group(components ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, component := range components {
			if component == nil {
				continue
			}
			if err := component.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// RoleBadgeView is the presentation mapping of a membership role.
type RoleBadgeView struct {
	// Category is the stable presentation category used for styling.
	Category string
	// Label is the localized display label.
	Label string
}

// RoleBadge renders a membership role badge.
func RoleBadge(badge RoleBadgeView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<span class="role-badge role-badge--%s">%s</span>`,
			html.EscapeString(badge.Category), html.EscapeString(badge.Label),
		)
		return err
	})
}

// Render draws a component to a string, for tests and handlers that
// compose raw fragments.
func Render(ctx context.Context, component templ.Component) (string, error) {
	if component == nil {
		return "", nil
	}
	var builder strings.Builder
	if err := component.Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
