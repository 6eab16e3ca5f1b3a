package roles

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("roles", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:8087" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:8087")
	}
	if cfg.DBPath != "roles.db" {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, "roles.db")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("INKROOM_ROLES_DB_PATH", "/tmp/roles-test.db")

	fs := flag.NewFlagSet("roles", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-http-addr", "127.0.0.1:19087"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:19087" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "127.0.0.1:19087")
	}
	if cfg.DBPath != "/tmp/roles-test.db" {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, "/tmp/roles-test.db")
	}
}
