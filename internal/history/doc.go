// Package history provides a bounded, browsable log of previously
// submitted lines.
//
// The store keeps at most its configured capacity, evicting the oldest
// entry on overflow. Browsing is a logical backward offset from "not yet
// submitted": the first step back saves the uncommitted line exactly
// once, stepping past the oldest entry clamps, and stepping forward past
// the newest restores the saved line and leaves browse mode.
//
// Persistence is deliberately absent; callers that want history on disk
// copy entries out and seed a new store themselves.
package history
