package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	formatLength = "length"
	formatSealed = "sealed"
)

type serviceConfig struct {
	ListenAddr  string
	AdminAddr   string
	Format      string
	MaxPayload  uint64
	CorsOrigins []string
}

func defaultServiceConfig() serviceConfig {
	return serviceConfig{
		ListenAddr: ":7420",
		Format:     formatSealed,
	}
}

type fileConfig struct {
	ListenAddr  string   `toml:"listen_addr"`
	AdminAddr   string   `toml:"admin_addr"`
	Format      string   `toml:"format"`
	MaxPayload  int64    `toml:"max_payload"`
	CorsOrigins []string `toml:"cors_origins"`
}

func loadServiceConfig(path string) (serviceConfig, error) {
	cfg := defaultServiceConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return serviceConfig{}, fmt.Errorf("load echod config: %w", err)
	}

	if meta.IsDefined("listen_addr") {
		if addr := strings.TrimSpace(raw.ListenAddr); addr != "" {
			cfg.ListenAddr = addr
		}
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("format") {
		format := strings.ToLower(strings.TrimSpace(raw.Format))
		switch format {
		case formatLength, formatSealed:
			cfg.Format = format
		default:
			return serviceConfig{}, fmt.Errorf("unknown header format %q", raw.Format)
		}
	}
	if meta.IsDefined("max_payload") {
		if raw.MaxPayload < 0 {
			return serviceConfig{}, fmt.Errorf("max_payload must be non-negative, got %d", raw.MaxPayload)
		}
		cfg.MaxPayload = uint64(raw.MaxPayload)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}

	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
