package render

import (
	"github.com/dshills/lineweave/internal/grapheme"
)

// DefaultContinuation is the continuation prompt used when none is
// configured.
const DefaultContinuation = "| "

// Model computes frames for a fixed pair of prompt strings. Prompts
// change only through SetPrompt; the session serializes those calls.
type Model struct {
	prompt  string
	promptW int
	cont    string
	contW   int
}

// NewModel creates a model with the given primary and continuation
// prompts.
func NewModel(prompt, continuation string) *Model {
	if continuation == "" {
		continuation = DefaultContinuation
	}
	m := &Model{}
	m.SetPrompt(prompt)
	m.SetContinuation(continuation)
	return m
}

// SetPrompt replaces the primary prompt.
func (m *Model) SetPrompt(prompt string) {
	m.prompt = prompt
	m.promptW = grapheme.Width(grapheme.Split(prompt))
}

// SetContinuation replaces the continuation prompt.
func (m *Model) SetContinuation(cont string) {
	m.cont = cont
	m.contW = grapheme.Width(grapheme.Split(cont))
}

// Prompt returns the primary prompt.
func (m *Model) Prompt() string {
	return m.prompt
}

// Compute derives the frame for the given logical rows at the given
// terminal width. cursorRow/cursorCol are logical coordinates (row
// index, cluster offset) as reported by the buffer.
//
// The first visual row is prefixed by the primary prompt; every
// subsequent visual row, whether wrapped or an explicit continuation
// row, is prefixed by the continuation prompt. A row wraps once its
// cumulative display width would exceed the terminal width; a two-column
// cluster that would straddle the boundary moves whole to the next row.
// A cursor at the end of an exactly full row is placed at the start of
// the following visual row, never in a column past the terminal edge.
func (m *Model) Compute(rows [][]grapheme.Cluster, cursorRow, cursorCol, width int) Frame {
	if width < 1 {
		width = 1
	}

	frame := Frame{Width: width}
	var cur []byte // current visual row under construction
	curW := 0      // its display width so far
	prefixW := 0   // width of its prompt prefix

	open := func() {
		if len(frame.Rows) == 0 && cur == nil {
			cur = append(cur, m.prompt...)
			prefixW = m.promptW
		} else {
			cur = append(cur, m.cont...)
			prefixW = m.contW
		}
		curW = prefixW
	}
	flush := func() {
		frame.Rows = append(frame.Rows, string(cur))
		cur = nil
	}
	record := func() {
		// A row that exactly fills the width has no cell left for the
		// cursor; it sits at the start of the next visual row, where
		// the next typed cluster would land.
		if curW >= width && curW > prefixW {
			flush()
			open()
		}
		frame.CursorRow = len(frame.Rows)
		frame.CursorCol = curW
	}

	open()
	for li, row := range rows {
		if li > 0 {
			flush()
			open()
		}
		for ci, cl := range row {
			// Wrap before the cluster that would straddle or
			// overflow the boundary, but never wrap an empty row.
			if curW+cl.Width > width && curW > prefixW {
				flush()
				open()
			}
			if li == cursorRow && ci == cursorCol {
				record()
			}
			cur = append(cur, cl.Text...)
			curW += cl.Width
		}
		if li == cursorRow && cursorCol == len(row) {
			record()
		}
	}
	flush()

	return frame
}
