//go:build !windows

package term

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TTY is the default driver for a POSIX controlling terminal. It owns
// raw mode for the lifetime of the driver and decodes the input byte
// stream into key events on a dedicated goroutine.
type TTY struct {
	in       *os.File
	out      *os.File
	oldState *term.State

	events chan Event
	winch  chan os.Signal
	done   chan struct{}
	wg     sync.WaitGroup

	mu   sync.Mutex
	cols int
	rows int

	closeOnce sync.Once
	closeErr  error
}

// NewTTY opens a driver on stdin/stdout.
func NewTTY() (*TTY, error) {
	return NewTTYFiles(os.Stdin, os.Stdout)
}

// NewTTYFiles opens a driver on the given terminal files. The input file
// is switched to raw mode; Close restores it.
func NewTTYFiles(in, out *os.File) (*TTY, error) {
	oldState, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	cols, rows, err := term.GetSize(int(out.Fd()))
	if err != nil {
		_ = term.Restore(int(in.Fd()), oldState)
		return nil, fmt.Errorf("querying terminal size: %w", err)
	}

	t := &TTY{
		in:       in,
		out:      out,
		oldState: oldState,
		events:   make(chan Event, 16),
		winch:    make(chan os.Signal, 1),
		done:     make(chan struct{}),
		cols:     cols,
		rows:     rows,
	}

	signal.Notify(t.winch, unix.SIGWINCH)

	t.wg.Add(2)
	go t.readLoop()
	go t.winchLoop()

	return t, nil
}

// Events returns the driver's event stream.
func (t *TTY) Events() <-chan Event {
	return t.events
}

// Size returns the most recently observed terminal geometry.
func (t *TTY) Size() (cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cols, t.rows
}

// Close stops event capture and leaves raw mode. Idempotent.
func (t *TTY) Close() error {
	t.closeOnce.Do(func() {
		signal.Stop(t.winch)
		close(t.done)
		// Unblock the reader goroutine's pending Read.
		_ = t.in.SetReadDeadline(time.Now())
		t.wg.Wait()
		_ = t.in.SetReadDeadline(time.Time{})
		close(t.events)
		t.closeErr = term.Restore(int(t.in.Fd()), t.oldState)
	})
	return t.closeErr
}

// readLoop decodes input bytes into key events until the driver closes
// or a fatal read error occurs.
func (t *TTY) readLoop() {
	defer t.wg.Done()
	r := bufio.NewReader(t.in)
	for {
		ev, err := decodeEvent(r)
		switch {
		case err == nil:
			if !t.send(KeyEvent{Key: ev}) {
				return
			}
		case errors.Is(err, ErrInvalidInput):
			if !t.send(ErrorEvent{Err: err}) {
				return
			}
		case errors.Is(err, os.ErrDeadlineExceeded):
			select {
			case <-t.done:
				return
			default:
				// Spurious deadline; keep reading.
			}
		default:
			t.send(ErrorEvent{Err: err})
			return
		}
	}
}

// winchLoop converts SIGWINCH into resize events.
func (t *TTY) winchLoop() {
	defer t.wg.Done()
	for {
		select {
		case <-t.done:
			return
		case <-t.winch:
			cols, rows, err := term.GetSize(int(t.out.Fd()))
			if err != nil {
				continue
			}
			t.mu.Lock()
			t.cols, t.rows = cols, rows
			t.mu.Unlock()
			if !t.send(ResizeEvent{Cols: cols, Rows: rows}) {
				return
			}
		}
	}
}

// send delivers an event unless the driver is shutting down. Returns
// false once done is closed.
func (t *TTY) send(ev Event) bool {
	select {
	case t.events <- ev:
		return true
	case <-t.done:
		return false
	}
}
