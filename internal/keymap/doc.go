// Package keymap resolves key events to editing actions under a
// keybinding mode.
//
// A Mode is a strategy: it owns a chord-to-action table and nothing
// else. The session applies whatever action comes back, so new modes can
// be added without touching any caller. "emacs" is the only built-in
// mode today. Override files in TOML or YAML layer user bindings on top
// of a base mode.
package keymap
