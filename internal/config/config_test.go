//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://console@localhost/console
auth:
  secret: 0123456789abcdef0123
`)
	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("expected default http addr, got %q", cfg.HTTP.Addr)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Auth.TTL != 30*time.Minute {
		t.Errorf("expected default auth ttl, got %v", cfg.Auth.TTL)
	}
	if cfg.Redis.TTL != time.Hour {
		t.Errorf("expected default redis ttl, got %v", cfg.Redis.TTL)
	}
	if cfg.Redis.UserTTL != 30*time.Second {
		t.Errorf("expected default user cache ttl, got %v", cfg.Redis.UserTTL)
	}
	if cfg.Download.RateWindow != time.Minute {
		t.Errorf("expected default rate window, got %v", cfg.Download.RateWindow)
	}
	if !cfg.Runtime.Dev {
		t.Error("expected dev flag to be carried")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9000"
database:
  url: postgres://from-file
auth:
  secret: 0123456789abcdef0123
`)
	t.Setenv("CONSOLE_DATABASE_URL", "postgres://from-env")
	t.Setenv("CONSOLE_DOWNLOAD_RATE_LIMIT", "5")

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.URL != "postgres://from-env" {
		t.Errorf("env override not applied, got %q", cfg.Database.URL)
	}
	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("file value lost, got %q", cfg.HTTP.Addr)
	}
	if cfg.Download.RateLimit != 5 {
		t.Errorf("expected rate limit 5, got %d", cfg.Download.RateLimit)
	}
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("CONSOLE_DATABASE_URL", "postgres://env-only")
	t.Setenv("CONSOLE_AUTH_SECRET", "0123456789abcdef0123")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Database.URL != "postgres://env-only" {
		t.Errorf("got %q", cfg.Database.URL)
	}
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing database", "auth:\n  secret: 0123456789abcdef0123\n", "database.url"},
		{"short secret", "database:\n  url: x\nauth:\n  secret: short\n", "auth.secret"},
		{"negative rate", "database:\n  url: x\nauth:\n  secret: 0123456789abcdef0123\ndownload:\n  rate_limit: -1\n", "rate_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body), false)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "http: [unterminated"), false)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
