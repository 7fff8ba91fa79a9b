package lineweave

import (
	"github.com/google/uuid"

	"github.com/dshills/lineweave/internal/coord"
)

// SharedWriter emits output above the active prompt. Handles are cheap;
// give every producer goroutine its own. Payloads from one handle appear
// in the order they were written; payloads are never split across a
// prompt redraw and never dropped — a full queue blocks the writer
// instead.
//
// SharedWriter implements io.Writer.
type SharedWriter struct {
	id string
	c  *coord.Coordinator
}

// Writer returns a new writer handle for this session.
func (r *Readline) Writer() *SharedWriter {
	return &SharedWriter{id: uuid.New().String(), c: r.coord}
}

// ID returns the handle's unique identifier, for diagnostics.
func (w *SharedWriter) ID() string {
	return w.id
}

// Write queues p for emission above the prompt. It blocks while the
// queue is full and returns ErrClosed after the session has closed. A
// payload without a trailing newline leaves the line open; the next
// payload continues it.
func (w *SharedWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	// The queue owns the payload from here on; the caller may reuse p.
	owned := make([]byte, len(p))
	copy(owned, p)
	if err := w.c.Enqueue(owned); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteLine queues a complete line, appending the newline if s lacks
// one.
func (w *SharedWriter) WriteLine(s string) error {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		s += "\n"
	}
	_, err := w.Write([]byte(s))
	return err
}
