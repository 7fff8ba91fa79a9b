package term

import "github.com/dshills/lineweave/internal/key"

// Event is one item in the driver's stream: a key press, a terminal
// resize, or an input error.
type Event interface {
	isEvent()
}

// KeyEvent carries a decoded key press.
type KeyEvent struct {
	Key key.Event
}

func (KeyEvent) isEvent() {}

// ResizeEvent reports the new terminal geometry.
type ResizeEvent struct {
	Cols int
	Rows int
}

func (ResizeEvent) isEvent() {}

// ErrorEvent reports an input decoding or I/O error. Encoding errors are
// recoverable (the offending bytes were dropped); read errors are fatal
// to the session.
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) isEvent() {}
