package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/gadgetctl/internal/server"
)

type fileConfig struct {
	ID          string   `toml:"id"`
	ListenAddr  string   `toml:"listen_addr"`
	AdminAddr   string   `toml:"admin_addr"`
	GadgetsFile string   `toml:"gadgets_file"`
	CorsOrigins []string `toml:"cors_origins"`
}

func loadServiceConfig(path string) (server.ServiceConfig, error) {
	cfg := server.DefaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return server.ServiceConfig{}, fmt.Errorf("load gadgetd config: %w", err)
	}

	if meta.IsDefined("id") {
		id := strings.TrimSpace(raw.ID)
		if id != "" {
			cfg.ServiceID = id
		}
	}

	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}

	if meta.IsDefined("admin_addr") {
		cfg.AdminListenAddr = strings.TrimSpace(raw.AdminAddr)
	}

	if meta.IsDefined("gadgets_file") {
		cfg.GadgetsFile = strings.TrimSpace(raw.GadgetsFile)
	}

	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}

	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
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
