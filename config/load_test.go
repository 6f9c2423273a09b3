package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/opsknowledge/retrieval-core/secret"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaultsThenYAMLOverlay(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9090
cache:
  strategy: remote_only
`)
	cfg, err := Load(context.Background(), path, secret.NewResolver(false))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (YAML overlay)", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default 0.0.0.0 (untouched by YAML)", cfg.Server.Host)
	}
	if cfg.Cache.Strategy != "remote_only" {
		t.Errorf("Cache.Strategy = %q, want remote_only", cfg.Cache.Strategy)
	}
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("PP_REDIS_URL", "redis://cache.internal:6379")
	path := writeTempConfig(t, `
cache:
  remote:
    url: "${PP_REDIS_URL}"
`)
	cfg, err := Load(context.Background(), path, secret.NewResolver(false))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cache.Remote.URL != "redis://cache.internal:6379" {
		t.Errorf("Cache.Remote.URL = %q, want expanded value", cfg.Cache.Remote.URL)
	}
}

func TestLoad_MissingEnvironmentVariableErrors(t *testing.T) {
	path := writeTempConfig(t, `
server:
  host: "${PP_UNSET_VAR_FOR_TEST}"
`)
	if _, err := Load(context.Background(), path, secret.NewResolver(false)); err == nil {
		t.Error("Load() error = nil, want failure on missing required env var")
	}
}

func TestLoad_ResolvesSourceConfigMapValues(t *testing.T) {
	t.Setenv("PP_CONFLUENCE_TOKEN", "shh")
	path := writeTempConfig(t, `
sources:
  - name: confluence-prod
    type: confluence
    config:
      token: "${PP_CONFLUENCE_TOKEN}"
      url: "https://confluence.internal"
`)
	cfg, err := Load(context.Background(), path, secret.NewResolver(false))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Sources) != 1 {
		t.Fatalf("len(Sources) = %d, want 1", len(cfg.Sources))
	}
	if got := cfg.Sources[0].Config["token"]; got != "shh" {
		t.Errorf("Sources[0].Config[token] = %v, want expanded env value", got)
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), secret.NewResolver(false)); err == nil {
		t.Error("Load() error = nil, want failure for a nonexistent file")
	}
}
