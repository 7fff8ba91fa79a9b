package key

import (
	"strings"
	"unicode"
)

// Event represents a single decoded key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// RuneEvent creates an event for a character key.
func RuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// Special creates an event for a non-character key.
func Special(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// Ctrl creates an event for a Ctrl+letter chord.
func Ctrl(r rune) Event {
	return Event{Key: KeyRune, Rune: unicode.ToLower(r), Modifiers: ModCtrl}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsText returns true if this is a printable character with no
// modifiers beyond Shift, the case where the character inserts itself.
func (e Event) IsText() bool {
	return e.IsRune() &&
		unicode.IsPrint(e.Rune) &&
		e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// Equals returns true if two events represent the same chord.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key &&
		e.Rune == other.Rune &&
		e.Modifiers == other.Modifiers
}

// String returns a canonical representation like "a", "Ctrl+C" or
// "Alt+Enter".
func (e Event) String() string {
	var parts []string
	if mods := e.Modifiers.String(); mods != "" {
		// Shift on a character key is part of the character itself.
		if !(e.IsRune() && e.Modifiers == ModShift) {
			parts = append(parts, mods)
		}
	}
	switch {
	case e.Key == KeyRune && e.Rune == ' ':
		parts = append(parts, "Space")
	case e.Key == KeyRune:
		parts = append(parts, string(e.Rune))
	default:
		parts = append(parts, e.Key.String())
	}
	return strings.Join(parts, "+")
}
