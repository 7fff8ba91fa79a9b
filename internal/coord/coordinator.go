package coord

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/dshills/lineweave/internal/grapheme"
	"github.com/dshills/lineweave/internal/render"
)

// ErrClosed reports use of a writer handle after the coordinator has
// shut down.
var ErrClosed = errors.New("write queue closed")

// DefaultQueueDepth bounds the write queue when no depth is configured.
const DefaultQueueDepth = 128

// Coordinator owns the terminal output sink and the last rendered
// frame. All screen mutation funnels through its mutex.
type Coordinator struct {
	mu   sync.Mutex
	out  io.Writer
	last render.Frame

	// Partial-line bookkeeping for payloads that do not end in a
	// newline: the next payload continues on the same scrollback line.
	lineOpen bool
	lineCol  int

	queue chan []byte
	done  chan struct{}
	wg    sync.WaitGroup

	// qmu orders producer sends against shutdown: a send completed
	// under the read lock happens before closed is set, so the drain
	// goroutine's final sweep is guaranteed to see the payload.
	qmu    sync.RWMutex
	closed bool

	closeOnce sync.Once
}

// New creates a coordinator writing to out with a bounded write queue of
// the given depth. Non-positive depths fall back to DefaultQueueDepth.
// The draining goroutine starts immediately, so writer payloads surface
// even while no line read is in flight.
func New(out io.Writer, depth int) *Coordinator {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	c := &Coordinator{
		out:   out,
		queue: make(chan []byte, depth),
		done:  make(chan struct{}),
	}
	c.wg.Add(1)
	go c.drain()
	return c
}

// Render draws the frame, diffing against the last rendered frame and
// rewriting only what changed. It blocks while a write holds the screen.
func (c *Coordinator) Render(f render.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var buf bytes.Buffer
	render.ApplyDiff(&buf, c.last, f)
	c.last = f
	return c.flush(&buf)
}

// Invalidate discards the last frame's row contents so the next Render
// performs a full redraw. The believed cursor row is kept so the redraw
// can still find the frame origin. Called on terminal resize.
func (c *Coordinator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last.Rows = nil
	c.last.Width = 0
}

// ClearScreen erases the whole screen and re-renders the last frame at
// the top.
func (c *Coordinator) ClearScreen() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var buf bytes.Buffer
	render.ClearScreen(&buf)
	c.lineOpen = false
	c.lineCol = 0
	render.EmitFrame(&buf, c.last)
	return c.flush(&buf)
}

// Enqueue submits a payload for emission above the prompt. It blocks
// while the queue is full and returns ErrClosed once the coordinator has
// shut down. Ownership of p transfers to the coordinator.
func (c *Coordinator) Enqueue(p []byte) error {
	c.qmu.RLock()
	defer c.qmu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	// The drain goroutine cannot exit while this read lock is held, so
	// a full queue always makes progress.
	c.queue <- p
	return nil
}

// Echo synchronously emits a payload above the prompt, bypassing the
// queue. Used by the session itself (interrupt echoes the aborted line)
// where queue backpressure must not apply.
func (c *Coordinator) Echo(p []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emit(p)
}

// Close shuts the queue down. Every payload accepted by Enqueue is
// emitted: a producer mid-send finishes before shutdown proceeds, and
// later Enqueue calls get ErrClosed. Close is idempotent.
func (c *Coordinator) Close() error {
	c.closeOnce.Do(func() {
		c.qmu.Lock()
		c.closed = true
		close(c.done)
		c.qmu.Unlock()
	})
	c.wg.Wait()
	return nil
}

// drain is the single consumer of the write queue.
func (c *Coordinator) drain() {
	defer c.wg.Done()
	for {
		select {
		case p := <-c.queue:
			c.mu.Lock()
			_ = c.emit(p)
			c.mu.Unlock()
		case <-c.done:
			// Flush anything accepted before shutdown.
			for {
				select {
				case p := <-c.queue:
					c.mu.Lock()
					_ = c.emit(p)
					c.mu.Unlock()
				default:
					return
				}
			}
		}
	}
}

// emit writes one payload above the prompt: erase the rendered rows,
// write the payload as scrollback, then re-render the frame. The caller
// holds mu.
func (c *Coordinator) emit(p []byte) error {
	var buf bytes.Buffer
	render.EraseFrame(&buf, c.last)

	// A previous payload left its line unterminated; continue it.
	if c.lineOpen {
		render.CursorUp(&buf, 1)
		render.CursorToColumn(&buf, c.lineCol)
	}

	// Emit the payload so that every newline also acts as a carriage
	// return; raw mode does no output translation.
	rest := p
	for len(rest) > 0 {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			buf.Write(rest)
			break
		}
		buf.Write(rest[:i])
		buf.WriteString("\r\n")
		rest = rest[i+1:]
	}

	if len(p) > 0 && p[len(p)-1] == '\n' {
		c.lineOpen = false
		c.lineCol = 0
	} else {
		// Remember where the open line ends so the next payload can
		// continue it, wrapping at the terminal width.
		tail := p
		if i := bytes.LastIndexByte(p, '\n'); i >= 0 {
			tail = p[i+1:]
		}
		c.lineCol += grapheme.Width(grapheme.Split(string(tail)))
		if c.last.Width > 0 && c.lineCol >= c.last.Width {
			c.lineCol %= c.last.Width
		}
		c.lineOpen = true
		buf.WriteString("\r\n")
	}

	render.EmitFrame(&buf, c.last)
	return c.flush(&buf)
}

// flush pushes accumulated sequences to the sink in a single write.
func (c *Coordinator) flush(buf *bytes.Buffer) error {
	if buf.Len() == 0 {
		return nil
	}
	_, err := c.out.Write(buf.Bytes())
	return err
}
