// Package config loads the gadget bootstrap file: declarative definitions
// of instances installed into the registry at startup, alongside the
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var (
	ErrInvalidDefinition = errors.New("config: invalid gadget definition")
	ErrDuplicateName     = errors.New("config: duplicate gadget name")
)

type GadgetsConfig struct {
	Gadgets []GadgetDefinition `toml:"gadgets"`
}

// GadgetDefinition declares one instance to install at startup.
type GadgetDefinition struct {
	Name    string `toml:"name"`
	Kind    string `toml:"kind"`
	Initial int    `toml:"initial"`
}

// LoadGadgetsConfig reads and validates a bootstrap file.
func LoadGadgetsConfig(path string) (GadgetsConfig, error) {
	var cfg GadgetsConfig
	if err := loadToml(path, &cfg); err != nil {
		return GadgetsConfig{}, err
	}
	if err := ValidateGadgetsConfig(cfg); err != nil {
		return GadgetsConfig{}, err
	}
	return cfg, nil
}

// ValidateGadgetsConfig checks names and kinds; duplicates would be rejected
// at install time anyway, but a bad file should fail before the listener
// binds.
func ValidateGadgetsConfig(cfg GadgetsConfig) error {
	seen := make(map[string]struct{}, len(cfg.Gadgets))
	for _, def := range cfg.Gadgets {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
		}
		switch def.Kind {
		case "counter", "maxcell":
		default:
			return fmt.Errorf("%w: unknown kind %q for %q", ErrInvalidDefinition, def.Kind, name)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func loadToml(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}
