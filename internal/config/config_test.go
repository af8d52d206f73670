package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9999"
session:
  auth_ttl: 2h
  approver_ttl: 168h
meta:
  app_id: fb-app
  graph_url: http://localhost:9899/graph
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9999" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Session.AuthTTL != 2*time.Hour {
		t.Fatalf("unexpected session auth ttl: %s", cfg.Session.AuthTTL)
	}
	if cfg.Session.ApproverTTL != 168*time.Hour {
		t.Fatalf("unexpected approver ttl: %s", cfg.Session.ApproverTTL)
	}
	if cfg.Meta.AppID != "fb-app" {
		t.Fatalf("unexpected meta app id: %s", cfg.Meta.AppID)
	}
	if cfg.Meta.GraphURL != "http://localhost:9899/graph" {
		t.Fatalf("unexpected graph url: %s", cfg.Meta.GraphURL)
	}

	// untouched sections keep their defaults
	if cfg.Postgres.DSN != Default().Postgres.DSN {
		t.Fatalf("postgres dsn should keep default, got %s", cfg.Postgres.DSN)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level should keep default, got %s", cfg.Log.Level)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	clearConfigEnv(t)

	t.Setenv("POSTGRES_DSN", "postgres://other:other@db:5432/painel")
	t.Setenv("SESSION_AUTH_TTL", "45m")
	t.Setenv("S3_BUCKET", "assets-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Postgres.DSN != "postgres://other:other@db:5432/painel" {
		t.Fatalf("unexpected dsn: %s", cfg.Postgres.DSN)
	}
	if cfg.Session.AuthTTL != 45*time.Minute {
		t.Fatalf("unexpected auth ttl: %s", cfg.Session.AuthTTL)
	}
	if cfg.S3.Bucket != "assets-test" {
		t.Fatalf("unexpected bucket: %s", cfg.S3.Bucket)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SESSION_AUTH_TTL", "not-a-duration")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for invalid duration override")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV",
		"HTTP_ADDR",
		"HTTP_READ_TIMEOUT",
		"HTTP_WRITE_TIMEOUT",
		"HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL",
		"POSTGRES_DSN",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"S3_ENDPOINT",
		"S3_ACCESS_KEY",
		"S3_SECRET_KEY",
		"S3_BUCKET",
		"S3_PUBLIC_URL",
		"S3_USE_SSL",
		"SESSION_AUTH_TTL",
		"SESSION_APPROVER_TTL",
		"META_APP_ID",
		"META_APP_SECRET",
		"META_REDIRECT_URL",
		"META_GRAPH_URL",
		"META_HTTP_TIMEOUT",
		"CLEANUP_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}
