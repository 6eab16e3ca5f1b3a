// Package projects is the web module for collaborative writing projects:
// permission resolution, capability guards, and membership management.
package projects

import (
	"net/http"
	"time"

	"github.com/inkroom/inkroom/internal/services/web/module"
	"github.com/inkroom/inkroom/internal/services/web/routepath"
)

// Module mounts the project pages under the app prefix.
type Module struct {
	handlers *Handlers
	gateway  RolesGateway
}

// Config carries module dependencies.
type Config struct {
	Gateway       RolesGateway
	ResolveUserID module.ResolveUserID
	// AppName appears in page titles. Empty selects the default.
	AppName string
	// RoleTTL bounds settled-role reuse. Zero selects the default.
	RoleTTL time.Duration
}

// New builds the projects module.
func New(cfg Config) *Module {
	resolver := NewResolver(cfg.Gateway, newRoleCache(cfg.RoleTTL))
	service := NewService(cfg.Gateway, resolver)
	return &Module{
		handlers: NewHandlers(resolver, service, cfg.ResolveUserID, cfg.AppName),
		gateway:  cfg.Gateway,
	}
}

// ID implements module.Module.
func (m *Module) ID() string { return "projects" }

// Mount implements module.Module.
func (m *Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+routepath.ProjectsPrefix+"{$}", m.handlers.Index)
	mux.HandleFunc("GET "+routepath.AppProjectPattern, m.handlers.Overview)
	mux.HandleFunc("GET "+routepath.AppProjectOutlinePattern, m.handlers.Outline)
	mux.HandleFunc("GET "+routepath.AppProjectSettingsPattern, m.handlers.Settings)
	mux.HandleFunc("POST "+routepath.AppProjectSettingsPattern+"/members", m.handlers.UpdateMember)
	mux.HandleFunc("POST "+routepath.AppProjectSettingsPattern+"/members/remove", m.handlers.RemoveMember)
	return module.Mount{Prefix: routepath.ProjectsPrefix, Handler: mux}, nil
}

// Healthy implements module.HealthReporter.
func (m *Module) Healthy() bool { return m.gateway != nil }
