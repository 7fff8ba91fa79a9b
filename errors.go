package lineweave

import (
	"errors"

	"github.com/dshills/lineweave/internal/coord"
	"github.com/dshills/lineweave/internal/term"
)

// Errors surfaced by a session and its writer handles.
var (
	// ErrInterrupted reports Ctrl-C. With a non-empty buffer the line
	// was discarded and the session remains usable; with an empty
	// buffer the caller decides whether to end the session.
	ErrInterrupted = errors.New("interrupted")

	// ErrClosed reports use of a session or writer handle after Close.
	ErrClosed = coord.ErrClosed

	// ErrInvalidInput reports malformed input bytes. It is recovered
	// internally and never returned from NextLine; it is exported for
	// callers inspecting driver errors directly.
	ErrInvalidInput = term.ErrInvalidInput
)
