package keymap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/lineweave/internal/key"
)

// BindingSpec is one user-supplied binding in an override file.
type BindingSpec struct {
	// Keys is a key specification understood by key.Parse.
	Keys string `toml:"keys" yaml:"keys"`

	// Action is a canonical action name; see Action.String. "none"
	// unbinds the chord.
	Action string `toml:"action" yaml:"action"`
}

// OverrideConfig is the override file shape, shared between the TOML and
// YAML flavors.
type OverrideConfig struct {
	Bindings []BindingSpec `toml:"bindings" yaml:"bindings"`
}

// LoadFile reads an override file and layers it on top of base. The
// format is chosen by extension: .toml, or .yaml/.yml.
func LoadFile(base Mode, path string) (Mode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keymap file: %w", err)
	}

	var config OverrideConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parsing keymap file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("parsing keymap file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported keymap file extension: %s", path)
	}

	return Override(base, config.Bindings)
}

// Override layers bindings on top of base, producing a derived mode
// named "<base>+overrides".
func Override(base Mode, bindings []BindingSpec) (Mode, error) {
	overrides := make(map[key.Event]Action, len(bindings))
	for i, spec := range bindings {
		ev, err := key.Parse(spec.Keys)
		if err != nil {
			return nil, fmt.Errorf("binding %d (%q): %w", i, spec.Keys, err)
		}
		action, ok := ActionFromName(spec.Action)
		if !ok {
			return nil, fmt.Errorf("binding %d (%q): unknown action %q", i, spec.Keys, spec.Action)
		}
		overrides[ev] = action
	}
	return &overrideMode{base: base, overrides: overrides}, nil
}

// overrideMode consults its override table first and falls back to the
// base mode.
type overrideMode struct {
	base      Mode
	overrides map[key.Event]Action
}

func (m *overrideMode) Name() string {
	return m.base.Name() + "+overrides"
}

func (m *overrideMode) Resolve(ev key.Event) Action {
	if a, ok := m.overrides[ev]; ok {
		return a
	}
	return m.base.Resolve(ev)
}
