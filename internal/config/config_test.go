package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/gadgetctl/internal/testutil/testlog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gadgets.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadGadgetsConfig(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[[gadgets]]
name = "hits"
kind = "counter"

[[gadgets]]
name = "peak"
kind = "maxcell"
initial = 42
`)

	cfg, err := LoadGadgetsConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Gadgets) != 2 {
		t.Fatalf("definitions: got=%d want=2", len(cfg.Gadgets))
	}
	if cfg.Gadgets[0].Name != "hits" || cfg.Gadgets[0].Kind != "counter" || cfg.Gadgets[0].Initial != 0 {
		t.Fatalf("first definition: %+v", cfg.Gadgets[0])
	}
	if cfg.Gadgets[1].Name != "peak" || cfg.Gadgets[1].Kind != "maxcell" || cfg.Gadgets[1].Initial != 42 {
		t.Fatalf("second definition: %+v", cfg.Gadgets[1])
	}
}

func TestLoadGadgetsConfigEmptyFile(t *testing.T) {
	testlog.Start(t)
	cfg, err := LoadGadgetsConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Gadgets) != 0 {
		t.Fatalf("expected no definitions, got %+v", cfg.Gadgets)
	}
}

func TestLoadGadgetsConfigMissingFile(t *testing.T) {
	testlog.Start(t)
	if _, err := LoadGadgetsConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateGadgetsConfigFailures(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name    string
		cfg     GadgetsConfig
		wantErr error
	}{
		{
			"empty name",
			GadgetsConfig{Gadgets: []GadgetDefinition{{Name: " ", Kind: "counter"}}},
			ErrInvalidDefinition,
		},
		{
			"unknown kind",
			GadgetsConfig{Gadgets: []GadgetDefinition{{Name: "x", Kind: "widget"}}},
			ErrInvalidDefinition,
		},
		{
			"duplicate name",
			GadgetsConfig{Gadgets: []GadgetDefinition{
				{Name: "x", Kind: "counter"},
				{Name: "x", Kind: "maxcell"},
			}},
			ErrDuplicateName,
		},
	}
	for _, c := range cases {
		if err := ValidateGadgetsConfig(c.cfg); !errors.Is(err, c.wantErr) {
			t.Fatalf("%s: expected %v, got %v", c.name, c.wantErr, err)
		}
	}
}
