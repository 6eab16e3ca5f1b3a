// Package web wires configuration and startup for the web service.
package web

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/inkroom/inkroom/internal/platform/config"
	"github.com/inkroom/inkroom/internal/platform/otel"
	"github.com/inkroom/inkroom/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr     string `env:"INKROOM_WEB_HTTP_ADDR" envDefault:"localhost:8086"`
	RolesBaseURL string `env:"INKROOM_WEB_ROLES_BASE_URL" envDefault:"http://localhost:8087"`
	SessionKey   string `env:"INKROOM_WEB_SESSION_KEY"`
	AppName      string `env:"INKROOM_WEB_APP_NAME" envDefault:"Inkroom"`
}

// ParseConfig loads environment defaults and applies flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.RolesBaseURL, "roles-base-url", cfg.RolesBaseURL, "Roles service HTTP base URL")
	fs.StringVar(&cfg.SessionKey, "session-key", cfg.SessionKey, "Session signing key")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	if strings.TrimSpace(cfg.SessionKey) == "" {
		return errors.New("session key is required")
	}

	shutdown, err := otel.Setup(ctx, "inkroom-web")
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	server, err := web.NewServer(web.Config{
		HTTPAddr:     cfg.HTTPAddr,
		RolesBaseURL: cfg.RolesBaseURL,
		SessionKey:   []byte(cfg.SessionKey),
		AppName:      cfg.AppName,
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve web: %w", err)
	}
	return nil
}
