// Package key defines keyboard events and the textual key specifications
// used by keymap configuration.
//
// An Event is a decoded key chord: either a printable rune or a special
// key, plus a modifier bitmask. The terminal driver produces events; the
// keymap resolves them to editing actions. Parse understands the
// specification strings that appear in keymap override files, both
// "Ctrl+A" style and Vim-style "<C-a>".
package key
