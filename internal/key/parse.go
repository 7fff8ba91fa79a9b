package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "@"
//   - Special keys: "Enter", "Escape", "Tab", "Backspace", "Space"
//   - With modifiers: "Ctrl+A", "Alt+Enter", "Ctrl+Shift+P"
//   - Vim-style: "<C-a>", "<A-CR>", "<Esc>", "<BS>"
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseChord(spec[1:len(spec)-1], "-")
	}
	if strings.Contains(spec, "+") {
		return parseChord(spec, "+")
	}
	return parseKey(spec, ModNone)
}

// MustParse parses a key specification and panics on error. Use only for
// known-valid specs in table initialization.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}

// parseChord splits modifiers from the final key part on sep.
func parseChord(spec, sep string) (Event, error) {
	parts := strings.Split(spec, sep)
	if len(parts) == 0 {
		return Event{}, ErrInvalidSpec
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		p = strings.ToLower(strings.TrimSpace(p))
		mod := modifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKey(strings.TrimSpace(parts[len(parts)-1]), mods)
}

// parseKey parses a bare key name or single character.
func parseKey(part string, mods Modifier) (Event, error) {
	if part == "" {
		return Event{}, ErrInvalidSpec
	}

	if k := FromName(part); k != KeyNone {
		return Special(k, mods), nil
	}
	if strings.EqualFold(part, "space") {
		return RuneEvent(' ', mods), nil
	}

	runes := []rune(part)
	if len(runes) != 1 {
		return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, part)
	}
	r := runes[0]
	if mods.Has(ModCtrl) || mods.Has(ModAlt) || mods.Has(ModMeta) {
		// Chords are case-insensitive.
		r = unicode.ToLower(r)
	}
	return RuneEvent(r, mods), nil
}
