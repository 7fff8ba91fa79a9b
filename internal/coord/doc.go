// Package coord serializes every mutation of the terminal screen.
//
// The Coordinator is the single owner of the physical cursor: prompt
// renders from the session and payloads from any number of writer
// goroutines both pass through its mutex, so a write is never
// interleaved with a partial render. Writer payloads travel through a
// bounded FIFO queue drained by one background goroutine; a full queue
// blocks the producer rather than dropping anything.
//
// The coordinator also owns the last-rendered frame. A write erases
// those rows, emits its payload as scrollback, and re-renders the frame
// from that record, which is what lets external output appear above an
// active prompt without corrupting it.
package coord
