// Package web composes the Inkroom web application server.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/inkroom/inkroom/internal/services/web/module"
	"github.com/inkroom/inkroom/internal/services/web/modules/projects"
	"github.com/inkroom/inkroom/internal/services/web/platform/session"
	"github.com/inkroom/inkroom/internal/services/web/routepath"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr     string
	RolesBaseURL string
	// SessionKey signs and verifies session tokens.
	SessionKey []byte
	AppName    string
	// RoleTTL bounds settled-role cache reuse. Zero selects the default.
	RoleTTL time.Duration
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	modules    []module.Module
}

// NewServer builds the web server and its feature modules.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if strings.TrimSpace(config.RolesBaseURL) == "" {
		return nil, errors.New("roles base url is required")
	}
	verifier, err := session.NewVerifier(config.SessionKey)
	if err != nil {
		return nil, fmt.Errorf("init session verifier: %w", err)
	}

	gateway := projects.NewHTTPRolesGateway(config.RolesBaseURL, nil)
	projectsModule := projects.New(projects.Config{
		Gateway:       gateway,
		ResolveUserID: verifier.ResolveUserID,
		AppName:       config.AppName,
		RoleTTL:       config.RoleTTL,
	})
	modules := []module.Module{projectsModule}

	handler, err := newHandler(modules)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		modules: modules,
	}, nil
}

// newHandler mounts module routes and service endpoints on one mux.
func newHandler(modules []module.Module) (http.Handler, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, routepath.AppProjects, http.StatusFound)
	})

	seen := make(map[string]bool)
	for _, m := range modules {
		if m == nil {
			continue
		}
		if seen[m.ID()] {
			return nil, fmt.Errorf("duplicate module id %q", m.ID())
		}
		seen[m.ID()] = true
		mount, err := m.Mount()
		if err != nil {
			return nil, fmt.Errorf("mount module %q: %w", m.ID(), err)
		}
		if mount.Handler == nil {
			return nil, fmt.Errorf("module %q has no handler", m.ID())
		}
		// Module handlers register full route patterns; the prefix only
		// scopes dispatch.
		mux.Handle(mount.Prefix, mount.Handler)
	}
	return mux, nil
}

// Healthy reports whether every health-reporting module is available.
func (s *Server) Healthy() bool {
	if s == nil {
		return false
	}
	for _, m := range s.modules {
		reporter, ok := m.(module.HealthReporter)
		if ok && !reporter.Healthy() {
			return false
		}
	}
	return true
}

// ListenAndServe serves HTTP until the context ends, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {}
