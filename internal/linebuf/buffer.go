package linebuf

import (
	"errors"

	"github.com/dshills/lineweave/internal/grapheme"
)

// Errors returned by buffer operations.
var (
	// ErrIndexOutOfRange reports an internal cursor or range violation.
	// It is defensive: no sequence of public operations should produce it.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Buffer is an editable sequence of grapheme clusters with a cursor.
// The zero value is an empty buffer with the cursor at index 0.
//
// Buffer is not safe for concurrent use; the session goroutine owns it.
type Buffer struct {
	clusters []grapheme.Cluster
	cursor   int
}

// New creates an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// Len returns the number of clusters in the buffer, break markers
// included.
func (b *Buffer) Len() int {
	return len(b.clusters)
}

// Empty returns true if the buffer holds no clusters.
func (b *Buffer) Empty() bool {
	return len(b.clusters) == 0
}

// Cursor returns the cursor index in cluster units.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Text returns the buffer content as a string, break markers rendered
// as newlines.
func (b *Buffer) Text() string {
	return grapheme.Text(b.clusters)
}

// Clusters returns the underlying cluster sequence. The returned slice
// must not be mutated; callers needing a stable copy should copy it.
func (b *Buffer) Clusters() []grapheme.Cluster {
	return b.clusters
}

// InsertText inserts s at the cursor, advancing the cursor past the
// inserted clusters. Newlines in s become explicit break markers.
// Malformed bytes are dropped and reported via ErrInvalidEncoding from
// the grapheme package; the valid remainder is still inserted.
func (b *Buffer) InsertText(s string) error {
	clusters, err := grapheme.SplitStrict(s)
	if len(clusters) > 0 {
		b.insert(clusters)
	}
	return err
}

// InsertBreak inserts an explicit line-break marker at the cursor.
func (b *Buffer) InsertBreak() {
	b.insert([]grapheme.Cluster{grapheme.Break()})
}

func (b *Buffer) insert(clusters []grapheme.Cluster) {
	tail := make([]grapheme.Cluster, len(b.clusters[b.cursor:]))
	copy(tail, b.clusters[b.cursor:])
	b.clusters = append(b.clusters[:b.cursor], clusters...)
	b.clusters = append(b.clusters, tail...)
	b.cursor += len(clusters)
}

// deleteRange removes clusters in [from, to), leaving the cursor at from.
func (b *Buffer) deleteRange(from, to int) error {
	if from < 0 || to > len(b.clusters) || from > to {
		return ErrIndexOutOfRange
	}
	b.clusters = append(b.clusters[:from], b.clusters[to:]...)
	b.cursor = from
	return nil
}

// DeleteBack removes the cluster before the cursor. No-op at index 0.
func (b *Buffer) DeleteBack() {
	if b.cursor == 0 {
		return
	}
	// Range is cursor-derived and therefore always valid.
	_ = b.deleteRange(b.cursor-1, b.cursor)
}

// DeleteForward removes the cluster at the cursor. No-op at the end.
func (b *Buffer) DeleteForward() {
	if b.cursor >= len(b.clusters) {
		return
	}
	cur := b.cursor
	_ = b.deleteRange(cur, cur+1)
}

// DeleteWordBack removes from the previous word boundary to the cursor.
func (b *Buffer) DeleteWordBack() {
	start := b.prevWordIndex()
	_ = b.deleteRange(start, b.cursor)
}

// DeleteToEnd removes from the cursor to the end of the current logical
// row. If the cursor sits on a break marker the marker itself is removed,
// joining the rows.
func (b *Buffer) DeleteToEnd() {
	if b.cursor >= len(b.clusters) {
		return
	}
	end := b.cursor
	if b.clusters[end].IsBreak() {
		end++
	} else {
		for end < len(b.clusters) && !b.clusters[end].IsBreak() {
			end++
		}
	}
	_ = b.deleteRange(b.cursor, end)
}

// Clear removes all content and resets the cursor.
func (b *Buffer) Clear() {
	b.clusters = b.clusters[:0]
	b.cursor = 0
}

// Set replaces the entire content with s and places the cursor at the
// end. Used when recalling a history entry.
func (b *Buffer) Set(s string) {
	b.clusters = grapheme.Split(s)
	b.cursor = len(b.clusters)
}

// MoveLeft moves the cursor one cluster left. Clamped at 0.
func (b *Buffer) MoveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// MoveRight moves the cursor one cluster right. Clamped at Len.
func (b *Buffer) MoveRight() {
	if b.cursor < len(b.clusters) {
		b.cursor++
	}
}

// Home moves the cursor to the start of the buffer.
func (b *Buffer) Home() {
	b.cursor = 0
}

// End moves the cursor past the last cluster.
func (b *Buffer) End() {
	b.cursor = len(b.clusters)
}

// MoveWordLeft moves the cursor to the start of the previous word: skip
// any non-word clusters, then the alphanumeric run before them.
func (b *Buffer) MoveWordLeft() {
	b.cursor = b.prevWordIndex()
}

// MoveWordRight moves the cursor past the end of the next word: skip any
// non-word clusters, then the alphanumeric run after them.
func (b *Buffer) MoveWordRight() {
	i := b.cursor
	for i < len(b.clusters) && !b.clusters[i].IsWord() {
		i++
	}
	for i < len(b.clusters) && b.clusters[i].IsWord() {
		i++
	}
	b.cursor = i
}

// prevWordIndex returns the index of the start of the word preceding the
// cursor, or 0 if there is none.
func (b *Buffer) prevWordIndex() int {
	i := b.cursor
	for i > 0 && !b.clusters[i-1].IsWord() {
		i--
	}
	for i > 0 && b.clusters[i-1].IsWord() {
		i--
	}
	return i
}

// MoveRowStart moves the cursor to the first cluster of its logical row.
func (b *Buffer) MoveRowStart() {
	b.cursor = b.rowStart(b.cursor)
}

// MoveRowEnd moves the cursor past the last cluster of its logical row,
// just before the trailing break marker if one exists.
func (b *Buffer) MoveRowEnd() {
	b.cursor = b.rowEnd(b.cursor)
}

// MoveRowUp moves the cursor to the previous logical row, preserving the
// column where possible. No-op on the first row.
func (b *Buffer) MoveRowUp() {
	start := b.rowStart(b.cursor)
	if start == 0 {
		return
	}
	col := b.cursor - start
	prevStart := b.rowStart(start - 1)
	prevEnd := start - 1 // index of the break marker
	b.cursor = min(prevStart+col, prevEnd)
}

// MoveRowDown moves the cursor to the next logical row, preserving the
// column where possible. No-op on the last row.
func (b *Buffer) MoveRowDown() {
	end := b.rowEnd(b.cursor)
	if end >= len(b.clusters) {
		return
	}
	col := b.cursor - b.rowStart(b.cursor)
	nextStart := end + 1 // skip the break marker
	nextEnd := b.rowEnd(nextStart)
	b.cursor = min(nextStart+col, nextEnd)
}

// rowStart returns the index of the first cluster of the logical row
// containing index i.
func (b *Buffer) rowStart(i int) int {
	for i > 0 && !b.clusters[i-1].IsBreak() {
		i--
	}
	return i
}

// rowEnd returns the index just past the last cluster of the logical row
// containing index i (the index of the row's break marker, or Len).
func (b *Buffer) rowEnd(i int) int {
	for i < len(b.clusters) && !b.clusters[i].IsBreak() {
		i++
	}
	return i
}

// Rows returns the logical rows of the buffer: the cluster sequence
// split on break markers, markers excluded. An empty buffer yields one
// empty row.
func (b *Buffer) Rows() [][]grapheme.Cluster {
	rows := make([][]grapheme.Cluster, 0, 1)
	start := 0
	for i, c := range b.clusters {
		if c.IsBreak() {
			rows = append(rows, b.clusters[start:i])
			start = i + 1
		}
	}
	rows = append(rows, b.clusters[start:])
	return rows
}

// CursorRowCol returns the cursor position in logical coordinates: the
// row index and the cluster offset within that row.
func (b *Buffer) CursorRowCol() (row, col int) {
	for i := 0; i < b.cursor; i++ {
		if b.clusters[i].IsBreak() {
			row++
			col = 0
		} else {
			col++
		}
	}
	return row, col
}
