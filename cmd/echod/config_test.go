package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "echod.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServiceConfigDefaults(t *testing.T) {
	cfg, err := loadServiceConfig("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":7420" {
		t.Fatalf("listen addr=%q", cfg.ListenAddr)
	}
	if cfg.Format != formatSealed {
		t.Fatalf("format=%q", cfg.Format)
	}
	if cfg.AdminAddr != "" {
		t.Fatalf("admin addr=%q", cfg.AdminAddr)
	}
}

func TestLoadServiceConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
listen_addr = ":9900"
admin_addr = ":9901"
format = "length"
max_payload = 4096
cors_origins = ["http://localhost:3000", " "]
`)
	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9900" || cfg.AdminAddr != ":9901" {
		t.Fatalf("addrs=%q %q", cfg.ListenAddr, cfg.AdminAddr)
	}
	if cfg.Format != formatLength {
		t.Fatalf("format=%q", cfg.Format)
	}
	if cfg.MaxPayload != 4096 {
		t.Fatalf("max payload=%d", cfg.MaxPayload)
	}
	if len(cfg.CorsOrigins) != 1 || cfg.CorsOrigins[0] != "http://localhost:3000" {
		t.Fatalf("cors origins=%v", cfg.CorsOrigins)
	}
}

func TestLoadServiceConfigRejectsUnknownFormat(t *testing.T) {
	path := writeConfig(t, `format = "varint"`)
	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestLoadServiceConfigRejectsNegativeMaxPayload(t *testing.T) {
	path := writeConfig(t, `max_payload = -1`)
	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected error for negative max_payload")
	}
}
