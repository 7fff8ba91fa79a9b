package grapheme

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ErrInvalidEncoding reports that input contained bytes that do not form
// valid UTF-8. The offending bytes are dropped; any valid clusters around
// them are preserved.
var ErrInvalidEncoding = errors.New("invalid UTF-8 sequence")

// breakText is the underlying content of an explicit line-break marker.
const breakText = "\n"

// Cluster is a single grapheme cluster together with its display width
// in terminal columns.
type Cluster struct {
	// Text is the underlying byte content of the cluster.
	Text string

	// Width is the number of terminal columns the cluster occupies:
	// 0 for combining marks and line breaks, 1 for narrow glyphs,
	// 2 for wide glyphs.
	Width int
}

// New creates a cluster from its text, measuring its display width.
func New(text string) Cluster {
	return Cluster{Text: text, Width: clusterWidth(text)}
}

// Break returns the explicit line-break marker cluster. It is zero width
// and partitions the buffer into displayed rows.
func Break() Cluster {
	return Cluster{Text: breakText, Width: 0}
}

// IsBreak returns true if this cluster is a line-break marker.
func (c Cluster) IsBreak() bool {
	return c.Text == breakText
}

// IsWord returns true if the cluster belongs to an alphanumeric run.
// Word motion treats maximal alphanumeric runs as words; everything else
// (whitespace, punctuation, symbols) separates them.
func (c Cluster) IsWord() bool {
	r, _ := utf8.DecodeRuneInString(c.Text)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsNumber(r)
}

// clusterWidth measures the display width of a single cluster, clamped
// to the terminal cell range [0, 2].
func clusterWidth(text string) int {
	if text == breakText {
		return 0
	}
	w := runewidth.StringWidth(text)
	if w < 0 {
		return 0
	}
	if w > 2 {
		return 2
	}
	return w
}

// Split segments s into grapheme clusters. Newlines become line-break
// markers. Invalid bytes are replaced by the Unicode replacement
// character; use SplitStrict to detect and drop them instead.
func Split(s string) []Cluster {
	clusters, _ := split(s, false)
	return clusters
}

// SplitStrict segments s into grapheme clusters, dropping any bytes that
// do not form valid UTF-8. If anything was dropped it returns the valid
// clusters alongside ErrInvalidEncoding.
func SplitStrict(s string) ([]Cluster, error) {
	clusters, dropped := split(s, true)
	if dropped {
		return clusters, ErrInvalidEncoding
	}
	return clusters, nil
}

func split(s string, strict bool) (clusters []Cluster, dropped bool) {
	if s == "" {
		return nil, false
	}
	clusters = make([]Cluster, 0, len(s))
	state := -1
	for len(s) > 0 {
		cluster, rest, _, next := uniseg.FirstGraphemeClusterInString(s, state)
		s, state = rest, next

		// uniseg yields raw invalid bytes as single-byte clusters.
		if r, size := utf8.DecodeRuneInString(cluster); r == utf8.RuneError && size == 1 && len(cluster) == 1 {
			if strict {
				dropped = true
				continue
			}
			cluster = string(utf8.RuneError)
		}

		switch cluster {
		case "\r\n", "\r", "\n":
			clusters = append(clusters, Break())
		default:
			clusters = append(clusters, New(cluster))
		}
	}
	return clusters, dropped
}

// Width returns the total display width of a run of clusters.
func Width(clusters []Cluster) int {
	total := 0
	for _, c := range clusters {
		total += c.Width
	}
	return total
}

// Text joins a run of clusters back into a string. Break markers become
// newlines.
func Text(clusters []Cluster) string {
	n := 0
	for _, c := range clusters {
		n += len(c.Text)
	}
	buf := make([]byte, 0, n)
	for _, c := range clusters {
		buf = append(buf, c.Text...)
	}
	return string(buf)
}
