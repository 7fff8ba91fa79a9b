package keymap

import (
	"errors"
	"fmt"

	"github.com/dshills/lineweave/internal/key"
)

// ErrUnknownMode reports a request for a keybinding mode that is not
// registered.
var ErrUnknownMode = errors.New("unknown keybinding mode")

// Mode maps key chords to actions. Implementations hold a fixed table;
// they never mutate session state themselves.
type Mode interface {
	// Name returns the unique mode identifier (e.g., "emacs").
	Name() string

	// Resolve returns the action bound to the event. Printable
	// characters with no binding resolve to ActionInsertRune; anything
	// else unbound resolves to ActionNone.
	Resolve(ev key.Event) Action
}

// ByName returns the registered mode with the given name.
func ByName(name string) (Mode, error) {
	switch name {
	case "emacs", "":
		return Emacs(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// tableMode is a Mode backed by a chord lookup table.
type tableMode struct {
	name     string
	bindings map[key.Event]Action
}

func (m *tableMode) Name() string {
	return m.name
}

func (m *tableMode) Resolve(ev key.Event) Action {
	if a, ok := m.bindings[ev]; ok {
		return a
	}
	if ev.IsText() {
		return ActionInsertRune
	}
	return ActionNone
}
