// Package render computes terminal frames for a line buffer and emits
// the control sequences that realize them.
//
// A Frame is what the engine believes is on screen: the prompt-prefixed
// visual rows after wrapping at the terminal width, and the cursor's
// (row, column) within them. Compute derives a frame from the buffer's
// logical rows; ApplyDiff turns a previous-frame/next-frame pair into the
// minimal sequence of row rewrites and cursor moves. All escape sequence
// formatting lives in this package and nowhere else.
package render
