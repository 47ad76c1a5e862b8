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
  addr: ":9090"
auth:
  jwt_secret: yaml-secret
  jwt_access_ttl: 45m
jobs:
  membership_sweep_interval: 15m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Auth.JWTSecret != "yaml-secret" {
		t.Fatalf("unexpected jwt secret: %s", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.JWTAccessTTL != 45*time.Minute {
		t.Fatalf("unexpected access ttl: %s", cfg.Auth.JWTAccessTTL)
	}
	if cfg.Jobs.MembershipSweepInterval != 15*time.Minute {
		t.Fatalf("unexpected sweep interval: %s", cfg.Jobs.MembershipSweepInterval)
	}

	if cfg.HTTP.ReadTimeout != 5*time.Second {
		t.Fatalf("read timeout default should stay 5s, got %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("redis addr default should stay localhost:6379, got %s", cfg.Redis.Addr)
	}
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config with missing file: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Auth.JWTAccessTTL != 30*time.Minute {
		t.Fatalf("unexpected default access ttl: %s", cfg.Auth.JWTAccessTTL)
	}
	if cfg.Jobs.MembershipSweepInterval != time.Hour {
		t.Fatalf("unexpected default sweep interval: %s", cfg.Jobs.MembershipSweepInterval)
	}
}

func TestPostgresPoolSettings(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
postgres:
  max_conns: 16
  conn_max_lifetime: 10m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Postgres.MaxConns != 16 {
		t.Fatalf("yaml max conns not applied: %d", cfg.Postgres.MaxConns)
	}
	if cfg.Postgres.ConnMaxLifetime != 10*time.Minute {
		t.Fatalf("yaml conn lifetime not applied: %s", cfg.Postgres.ConnMaxLifetime)
	}
	if cfg.Postgres.MinConns != 0 {
		t.Fatalf("min conns default should stay 0, got %d", cfg.Postgres.MinConns)
	}

	t.Setenv("POSTGRES_MAX_CONNS", "4")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if cfg.Postgres.MaxConns != 4 {
		t.Fatalf("env max conns should beat yaml: %d", cfg.Postgres.MaxConns)
	}
}

func TestEnvOverridesBeatYAML(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":7777")
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":7777" {
		t.Fatalf("env http addr not applied: %s", cfg.HTTP.Addr)
	}
	if cfg.Auth.JWTAccessTTL != time.Hour {
		t.Fatalf("env access ttl not applied: %s", cfg.Auth.JWTAccessTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("env cors origins not applied: %v", cfg.CORS.AllowedOrigins)
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
		"POSTGRES_MAX_CONNS",
		"POSTGRES_MIN_CONNS",
		"POSTGRES_CONN_MAX_LIFETIME",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"JWT_SECRET",
		"JWT_ACCESS_TTL",
		"CORS_ALLOWED_ORIGINS",
		"MEMBERSHIP_SWEEP_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}
