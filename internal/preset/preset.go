// Package preset holds the built-in animation variants as TOML files and
// decodes user-supplied ones.
package preset

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/olivier-w/lumen/internal/engine"
)

// Default is the preset started when none is named.
const Default = "smooth-cycle"

var ErrUnknown = errors.New("preset: unknown preset")

//go:embed presets/*.toml
var files embed.FS

// Parse decodes and validates one preset. Keys that do not map onto the
// config are rejected so typos do not pass silently.
func Parse(data []byte) (engine.Config, error) {
	var cfg engine.Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return engine.Config{}, fmt.Errorf("preset: decode: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return engine.Config{}, fmt.Errorf("preset: unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

// Load reads a preset file from disk. A preset without a name takes the
// file's base name.
func Load(p string) (engine.Config, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return engine.Config{}, fmt.Errorf("preset: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return engine.Config{}, fmt.Errorf("%s: %w", p, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	}
	return cfg, nil
}

// All decodes every built-in preset in display order.
func All() ([]engine.Config, error) {
	entries, err := files.ReadDir("presets")
	if err != nil {
		return nil, err
	}
	out := make([]engine.Config, 0, len(entries))
	for _, e := range entries {
		cfg, err := readEmbedded(e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

// Names lists the built-in presets in display order.
func Names() []string {
	all, err := All()
	if err != nil {
		return nil
	}
	names := make([]string, len(all))
	for i, cfg := range all {
		names[i] = cfg.Name
	}
	return names
}

// Get returns the built-in preset with the given name.
func Get(name string) (engine.Config, error) {
	all, err := All()
	if err != nil {
		return engine.Config{}, err
	}
	for _, cfg := range all {
		if strings.EqualFold(cfg.Name, name) {
			return cfg, nil
		}
	}
	return engine.Config{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknown, name, strings.Join(Names(), ", "))
}

func readEmbedded(name string) (engine.Config, error) {
	data, err := files.ReadFile(path.Join("presets", name))
	if err != nil {
		return engine.Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return engine.Config{}, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}
