package render

// Frame is a snapshot of the prompt area as it appears on screen: the
// wrapped visual rows (prompt prefixes included) and the cursor position
// within them. Frames are derived, transient values; a new one is
// computed on every buffer mutation.
type Frame struct {
	// Rows holds the visual row contents, top to bottom.
	Rows []string

	// CursorRow and CursorCol locate the cursor, zero-based, with the
	// column measured in display cells.
	CursorRow int
	CursorCol int

	// Width is the terminal column count the frame was computed for.
	// A zero width marks the frame invalid, forcing a full redraw.
	Width int
}

// Valid reports whether the frame describes a known on-screen state.
func (f Frame) Valid() bool {
	return f.Width > 0
}

// RowCount returns the number of visual rows.
func (f Frame) RowCount() int {
	return len(f.Rows)
}

// Equal reports whether two frames would look identical on screen.
func (f Frame) Equal(other Frame) bool {
	if f.Width != other.Width ||
		f.CursorRow != other.CursorRow ||
		f.CursorCol != other.CursorCol ||
		len(f.Rows) != len(other.Rows) {
		return false
	}
	for i := range f.Rows {
		if f.Rows[i] != other.Rows[i] {
			return false
		}
	}
	return true
}
