// Package grapheme segments text into user-perceived characters and
// computes their terminal display widths.
//
// A Cluster is the unit everything above this package works in: the line
// buffer stores clusters, cursor motion steps over clusters, and the
// renderer sums cluster widths to place the cursor. Widths are clamped to
// the terminal range 0..2: combining marks occupy no column of their own,
// East Asian wide glyphs and most emoji occupy two.
//
// Segmentation follows Unicode UAX #29 via github.com/rivo/uniseg; width
// measurement uses github.com/mattn/go-runewidth.
package grapheme
