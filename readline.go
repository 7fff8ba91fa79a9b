package lineweave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dshills/lineweave/internal/coord"
	"github.com/dshills/lineweave/internal/history"
	"github.com/dshills/lineweave/internal/keymap"
	"github.com/dshills/lineweave/internal/linebuf"
	"github.com/dshills/lineweave/internal/render"
	"github.com/dshills/lineweave/internal/term"
)

// Readline is an interactive line-editing session. One goroutine calls
// NextLine; any number of goroutines may use Writer handles
// concurrently.
type Readline struct {
	drv       term.Driver
	ownDriver bool
	coord     *coord.Coordinator
	log       *slog.Logger

	// mu guards the editing state below. The session loop is the only
	// mutator; SetPrompt reads and renders from other goroutines.
	mu    sync.Mutex
	buf   *linebuf.Buffer
	hist  *history.Store
	mode  keymap.Mode
	model *render.Model
	width int

	closed bool
	fatal  error
}

// New creates a session and renders the initial prompt. Without
// WithDriver it takes over the controlling terminal (raw mode) until
// Close.
func New(opts ...Option) (*Readline, error) {
	cfg := config{
		prompt:     "> ",
		historyCap: history.DefaultCapacity,
		queueDepth: coord.DefaultQueueDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	mode, err := keymap.ByName(cfg.keymapName)
	if err != nil {
		return nil, err
	}
	if cfg.keymapFile != "" {
		mode, err = keymap.LoadFile(mode, cfg.keymapFile)
		if err != nil {
			return nil, err
		}
	}

	drv := cfg.driver
	ownDriver := false
	if drv == nil {
		tty, err := term.NewTTY()
		if err != nil {
			return nil, err
		}
		drv = tty
		ownDriver = true
	}

	out := cfg.output
	if out == nil {
		out = os.Stdout
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cols, _ := drv.Size()
	if cols < 1 {
		cols = 80
	}

	r := &Readline{
		drv:       drv,
		ownDriver: ownDriver,
		coord:     coord.New(out, cfg.queueDepth),
		log:       logger,
		buf:       linebuf.New(),
		hist:      history.NewStore(cfg.historyCap),
		mode:      mode,
		model:     render.NewModel(cfg.prompt, cfg.continuation),
		width:     cols,
	}
	r.hist.Seed(cfg.historySeed)

	if err := r.render(); err != nil {
		r.teardown()
		return nil, fmt.Errorf("initial render: %w", err)
	}
	return r, nil
}

// NextLine blocks until a line is submitted, the session is interrupted,
// input ends, the context is cancelled, or a fatal terminal error
// occurs.
//
// Returns the submitted text on Enter; ErrInterrupted on Ctrl-C; io.EOF
// on Ctrl-D with an empty buffer. Cancelling the context abandons the
// read without losing typed-but-unsubmitted text: the screen stays fully
// rendered and a later NextLine resumes with the same buffer.
func (r *Readline) NextLine(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.fatal != nil {
		err := r.fatal
		r.mu.Unlock()
		return "", err
	}
	if r.closed {
		r.mu.Unlock()
		return "", ErrClosed
	}
	r.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-r.drv.Events():
			if !ok {
				return "", r.failf("event stream closed")
			}
			line, done, err := r.handleEvent(ev)
			if done || err != nil {
				return line, err
			}
		}
	}
}

// handleEvent processes one driver event. done reports that NextLine
// should return.
func (r *Readline) handleEvent(ev term.Event) (line string, done bool, err error) {
	switch ev := ev.(type) {
	case term.ResizeEvent:
		r.mu.Lock()
		r.width = ev.Cols
		r.mu.Unlock()
		r.coord.Invalidate()
		return "", false, r.renderFatal()

	case term.ErrorEvent:
		if errors.Is(ev.Err, term.ErrInvalidInput) {
			r.log.Debug("dropped malformed input bytes")
			return "", false, nil
		}
		return "", true, r.fail(fmt.Errorf("terminal input: %w", ev.Err))

	case term.KeyEvent:
		return r.handleKey(ev)
	}
	return "", false, nil
}

// handleKey resolves a key event to an action and applies it.
func (r *Readline) handleKey(ev term.KeyEvent) (line string, done bool, err error) {
	r.mu.Lock()
	action := r.mode.Resolve(ev.Key)

	switch action {
	case keymap.ActionNone:
		r.mu.Unlock()
		return "", false, nil

	case keymap.ActionInsertRune:
		if err := r.buf.InsertText(string(ev.Key.Rune)); err != nil {
			r.log.Debug("dropped malformed input bytes")
		}

	case keymap.ActionMoveLeft:
		r.buf.MoveLeft()
	case keymap.ActionMoveRight:
		r.buf.MoveRight()
	case keymap.ActionMoveWordLeft:
		r.buf.MoveWordLeft()
	case keymap.ActionMoveWordRight:
		r.buf.MoveWordRight()
	case keymap.ActionMoveRowUp:
		r.buf.MoveRowUp()
	case keymap.ActionMoveRowDown:
		r.buf.MoveRowDown()
	case keymap.ActionHome:
		r.buf.MoveRowStart()
	case keymap.ActionEnd:
		r.buf.MoveRowEnd()

	case keymap.ActionDeleteBack:
		r.buf.DeleteBack()
	case keymap.ActionDeleteForward:
		r.buf.DeleteForward()
	case keymap.ActionDeleteWordBack:
		r.buf.DeleteWordBack()
	case keymap.ActionDeleteToEnd:
		r.buf.DeleteToEnd()
	case keymap.ActionClearLine:
		r.buf.Clear()

	case keymap.ActionClearScreen:
		r.mu.Unlock()
		if err := r.coord.ClearScreen(); err != nil {
			return "", true, r.fail(err)
		}
		return "", false, nil

	case keymap.ActionHistoryPrev:
		if s, ok := r.hist.Prev(r.buf.Text()); ok {
			r.buf.Set(s)
		}
	case keymap.ActionHistoryNext:
		if s, ok := r.hist.Next(); ok {
			r.buf.Set(s)
		}

	case keymap.ActionInsertNewline:
		r.buf.InsertBreak()

	case keymap.ActionSubmit:
		line := r.buf.Text()
		r.hist.ResetBrowse()
		r.hist.Push(line)
		r.buf.Clear()
		r.mu.Unlock()
		return line, true, r.renderFatal()

	case keymap.ActionInterrupt:
		if r.buf.Empty() {
			r.mu.Unlock()
			return "", true, ErrInterrupted
		}
		// Echo the aborted line as scrollback, then discard it.
		aborted := r.model.Prompt() + r.buf.Text() + "\n"
		r.hist.ResetBrowse()
		r.buf.Clear()
		r.mu.Unlock()
		if err := r.coord.Echo([]byte(aborted)); err != nil {
			return "", true, r.fail(err)
		}
		if err := r.renderFatal(); err != nil {
			return "", true, err
		}
		return "", true, ErrInterrupted

	case keymap.ActionEndOfInput:
		if r.buf.Empty() {
			r.mu.Unlock()
			return "", true, io.EOF
		}
		r.buf.DeleteForward()
	}

	r.mu.Unlock()
	return "", false, r.renderFatal()
}

// render recomputes the frame from current state and hands it to the
// coordinator.
func (r *Readline) render() error {
	r.mu.Lock()
	row, col := r.buf.CursorRowCol()
	frame := r.model.Compute(r.buf.Rows(), row, col, r.width)
	r.mu.Unlock()
	return r.coord.Render(frame)
}

// renderFatal renders and converts an I/O failure into the session's
// fatal state.
func (r *Readline) renderFatal() error {
	if err := r.render(); err != nil {
		return r.fail(err)
	}
	return nil
}

// fail records a fatal error. It is delivered once by the caller;
// subsequent NextLine calls observe the sticky copy.
func (r *Readline) fail(err error) error {
	r.mu.Lock()
	if r.fatal == nil {
		r.fatal = err
	}
	r.mu.Unlock()
	r.log.Debug("session failed", "err", err)
	return err
}

func (r *Readline) failf(format string, args ...any) error {
	return r.fail(fmt.Errorf(format, args...))
}

// SetPrompt replaces the primary prompt and redraws. Safe to call
// concurrently with NextLine.
func (r *Readline) SetPrompt(prompt string) {
	r.mu.Lock()
	r.model.SetPrompt(prompt)
	r.mu.Unlock()
	_ = r.render()
}

// History returns a copy of the retained history entries, oldest first,
// for callers persisting history across sessions.
func (r *Readline) History() []history.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hist.Entries()
}

// Close releases the terminal: pending writer payloads are flushed,
// writer handles start returning ErrClosed, and raw mode is restored if
// the session owned the driver. Idempotent.
func (r *Readline) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()
	return r.teardown()
}

func (r *Readline) teardown() error {
	err := r.coord.Close()
	if r.ownDriver {
		if derr := r.drv.Close(); err == nil {
			err = derr
		}
	}
	return err
}
