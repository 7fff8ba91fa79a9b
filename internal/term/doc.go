// Package term is the boundary to the physical terminal: raw mode,
// size queries, and the decoding of input bytes into key events.
//
// A Driver delivers a single ordered stream of events (key presses,
// resizes, errors). The default TTY driver puts the controlling terminal
// into raw mode via golang.org/x/term, listens for SIGWINCH, and decodes
// ANSI/VT escape sequences into key events. Sessions accept any Driver,
// so tests substitute a scripted one.
package term
