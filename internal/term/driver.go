package term

// Driver supplies terminal events and geometry. Implementations own raw
// mode and event capture; the session never touches the terminal's input
// side directly.
type Driver interface {
	// Events returns the stream of input events, delivered one at a
	// time in arrival order. The channel closes when the driver stops.
	Events() <-chan Event

	// Size returns the current terminal geometry in columns and rows.
	Size() (cols, rows int)

	// Close stops event capture and restores the terminal state.
	Close() error
}
