// Package linebuf implements the editable line buffer at the center of a
// readline session.
//
// A Buffer is an ordered sequence of grapheme clusters with a cursor
// index into that sequence. Explicit zero-width break markers partition
// the sequence into logical rows, which is how multiline input is
// represented. All public operations keep the cursor inside [0, Len()];
// range violations are defensive errors that are unreachable through the
// public operation set.
package linebuf
