package render

import (
	"bytes"
	"strconv"
)

// ANSI control sequences. These are the only escape literals in the
// module.
const (
	seqEraseLineRight = "\x1b[K"
	seqEraseDown      = "\x1b[J"
	seqEraseScreen    = "\x1b[2J\x1b[H"
)

func seqCursorUp(n int) string {
	if n <= 0 {
		return ""
	}
	return "\x1b[" + strconv.Itoa(n) + "A"
}

func seqCursorDown(n int) string {
	if n <= 0 {
		return ""
	}
	return "\x1b[" + strconv.Itoa(n) + "B"
}

// seqCursorColumn moves to a zero-based display column.
func seqCursorColumn(col int) string {
	return "\x1b[" + strconv.Itoa(col+1) + "G"
}

// CursorUp emits a relative cursor-up move. Exposed for the coordinator's
// partial-line restoration.
func CursorUp(buf *bytes.Buffer, n int) {
	buf.WriteString(seqCursorUp(n))
}

// CursorToColumn emits an absolute move to a zero-based display column.
func CursorToColumn(buf *bytes.Buffer, col int) {
	buf.WriteString(seqCursorColumn(col))
}

// EraseFrame moves from the frame's cursor position to the frame origin
// and erases everything from there to the bottom of the screen, leaving
// the cursor at the origin column 0.
func EraseFrame(buf *bytes.Buffer, f Frame) {
	buf.WriteByte('\r')
	buf.WriteString(seqCursorUp(f.CursorRow))
	buf.WriteString(seqEraseDown)
}

// EmitFrame writes all frame rows starting at the current cursor
// position (assumed to be the frame origin on an erased area) and places
// the cursor at the frame's cursor position.
func EmitFrame(buf *bytes.Buffer, f Frame) {
	for i, row := range f.Rows {
		if i > 0 {
			buf.WriteString("\r\n")
		}
		buf.WriteString(row)
	}
	repositionFromEnd(buf, f)
}

// ClearScreen erases the whole screen and homes the cursor. The caller
// re-emits the frame afterwards.
func ClearScreen(buf *bytes.Buffer) {
	buf.WriteString(seqEraseScreen)
}

// ApplyDiff emits the minimal operations transforming the on-screen prev
// frame into next: rewrite rows from the first difference down, erase
// surplus rows, and move the cursor. Frames computed for different
// widths fall back to a full erase and redraw.
func ApplyDiff(buf *bytes.Buffer, prev, next Frame) {
	if !prev.Valid() || prev.Width != next.Width {
		EraseFrame(buf, prev)
		EmitFrame(buf, next)
		return
	}

	first := firstDifference(prev, next)
	if first == -1 {
		moveCursor(buf, prev, next)
		return
	}

	// Move from the previous cursor position to the start of the first
	// differing row. Rows below the previous frame's extent do not exist
	// on screen yet; reach them with newlines, which scroll at the
	// bottom margin. Cursor-down does not scroll (ECMA-48) and would
	// land on the row holding the frame, desyncing the bookkeeping.
	buf.WriteByte('\r')
	buf.WriteString(seqCursorUp(prev.CursorRow - first))
	lastPrev := len(prev.Rows) - 1
	if lastPrev < 0 {
		lastPrev = 0
	}
	within := first
	if within > lastPrev {
		within = lastPrev
	}
	buf.WriteString(seqCursorDown(within - prev.CursorRow))
	for i := within; i < first; i++ {
		buf.WriteString("\r\n")
	}

	for i := first; i < len(next.Rows); i++ {
		if i > first {
			buf.WriteString("\r\n")
		}
		buf.WriteString(next.Rows[i])
		if i < len(next.Rows)-1 {
			buf.WriteString(seqEraseLineRight)
		}
	}
	// Erase the remainder of the last written row and any surplus rows
	// the previous frame still has below it.
	buf.WriteString(seqEraseDown)

	// The cursor sits at the end of the last rewritten row, or on the
	// first surplus row when next is a pure truncation of prev.
	at := len(next.Rows) - 1
	if first > at {
		at = first
	}
	buf.WriteString(seqCursorUp(at - next.CursorRow))
	buf.WriteString(seqCursorDown(next.CursorRow - at))
	buf.WriteString(seqCursorColumn(next.CursorCol))
}

// firstDifference returns the index of the first row differing between
// the frames, or -1 if the row contents are identical.
func firstDifference(prev, next Frame) int {
	common := len(prev.Rows)
	if len(next.Rows) < common {
		common = len(next.Rows)
	}
	for i := 0; i < common; i++ {
		if prev.Rows[i] != next.Rows[i] {
			return i
		}
	}
	if len(prev.Rows) != len(next.Rows) {
		return common
	}
	return -1
}

// repositionFromEnd moves the cursor from the end of the frame's last
// row to the frame's cursor position.
func repositionFromEnd(buf *bytes.Buffer, f Frame) {
	last := len(f.Rows) - 1
	if last < 0 {
		last = 0
	}
	buf.WriteString(seqCursorUp(last - f.CursorRow))
	buf.WriteString(seqCursorColumn(f.CursorCol))
}

// moveCursor emits a pure cursor move between two frames with identical
// row contents.
func moveCursor(buf *bytes.Buffer, prev, next Frame) {
	if prev.CursorRow == next.CursorRow && prev.CursorCol == next.CursorCol {
		return
	}
	buf.WriteString(seqCursorUp(prev.CursorRow - next.CursorRow))
	buf.WriteString(seqCursorDown(next.CursorRow - prev.CursorRow))
	buf.WriteString(seqCursorColumn(next.CursorCol))
}
