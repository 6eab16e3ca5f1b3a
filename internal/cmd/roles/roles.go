// Package roles wires configuration and startup for the roles service.
package roles

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/inkroom/inkroom/internal/platform/config"
	"github.com/inkroom/inkroom/internal/platform/otel"
	"github.com/inkroom/inkroom/internal/services/roles/api/httpapi"
	"github.com/inkroom/inkroom/internal/services/roles/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Config holds the roles command configuration.
type Config struct {
	HTTPAddr string `env:"INKROOM_ROLES_HTTP_ADDR" envDefault:"localhost:8087"`
	DBPath   string `env:"INKROOM_ROLES_DB_PATH" envDefault:"roles.db"`
}

// ParseConfig loads environment defaults and applies flag overrides.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the roles API server.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "inkroom-roles")
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open membership store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close membership store: %v", err)
		}
	}()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewHandler(store).Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	log.Printf("roles listening on %s", cfg.HTTPAddr)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve roles: %w", err)
	}
}
