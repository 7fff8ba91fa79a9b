package coord

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/lineweave/internal/render"
)

// syncSink is a goroutine-safe output sink for coordinator tests.
type syncSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func testFrame(rows []string, cursorRow, cursorCol int) render.Frame {
	return render.Frame{Rows: rows, CursorRow: cursorRow, CursorCol: cursorCol, Width: 80}
}

func TestRenderThenWrite(t *testing.T) {
	sink := &syncSink{}
	c := New(sink, 8)

	if err := c.Render(testFrame([]string{"> partial inpu"}, 0, 14)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := c.Enqueue([]byte("log line 1\n")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out := sink.String()
	payload := strings.Index(out, "log line 1")
	if payload < 0 {
		t.Fatalf("payload missing from output: %q", out)
	}
	// The prompt and typed text must be redrawn after the payload.
	redraw := strings.LastIndex(out, "> partial inpu")
	if redraw < payload {
		t.Errorf("prompt not redrawn after payload: %q", out)
	}
}

func TestConcurrentWritersNoLossNoInterleave(t *testing.T) {
	const handles = 8
	const lines = 50

	sink := &syncSink{}
	c := New(sink, 4) // small queue to exercise backpressure

	if err := c.Render(testFrame([]string{"> "}, 0, 2)); err != nil {
		t.Fatalf("render: %v", err)
	}

	var wg sync.WaitGroup
	for h := 0; h < handles; h++ {
		wg.Add(1)
		go func(h int) {
			defer wg.Done()
			for i := 0; i < lines; i++ {
				line := fmt.Sprintf("writer-%d line-%d\n", h, i)
				if err := c.Enqueue([]byte(line)); err != nil {
					t.Errorf("enqueue: %v", err)
					return
				}
			}
		}(h)
	}
	wg.Wait()
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out := sink.String()
	for h := 0; h < handles; h++ {
		last := -1
		for i := 0; i < lines; i++ {
			line := fmt.Sprintf("writer-%d line-%d", h, i)
			idx := strings.Index(out, line)
			if idx < 0 {
				t.Fatalf("lost line %q", line)
			}
			if idx < last {
				t.Errorf("line %q out of order for its handle", line)
			}
			last = idx
		}
	}
}

func TestPartialLineContinuation(t *testing.T) {
	sink := &syncSink{}
	c := New(sink, 8)

	if err := c.Render(testFrame([]string{"> "}, 0, 2)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := c.Enqueue([]byte("progress: ")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := c.Enqueue([]byte("done\n")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out := sink.String()
	if !strings.Contains(out, "progress: ") || !strings.Contains(out, "done") {
		t.Fatalf("payload pieces missing: %q", out)
	}
	// The continuation must restore the cursor to the open line: one
	// row up, at the column where the first payload ended.
	if !strings.Contains(out, "\x1b[1A\x1b[11G") {
		t.Errorf("expected open-line cursor restore, got %q", out)
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	c := New(&syncSink{}, 2)
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Enqueue([]byte("late\n")); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestCloseReleasesBlockedProducer(t *testing.T) {
	// No renders, so payloads still drain; block the queue by closing
	// first is racy. Instead fill the queue faster than it drains and
	// close concurrently: every Enqueue must return nil or ErrClosed,
	// never hang.
	sink := &syncSink{}
	c := New(sink, 1)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if err := c.Enqueue([]byte("x\n")); err != nil {
					if !errors.Is(err, ErrClosed) {
						t.Errorf("err = %v", err)
					}
					return
				}
			}
		}()
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	wg.Wait()
}

func TestAcceptedPayloadsSurviveShutdown(t *testing.T) {
	// Race producers against Close: any Enqueue that returned nil must
	// have its payload emitted, even when it was accepted in the middle
	// of shutdown.
	sink := &syncSink{}
	c := New(sink, 2)

	var mu sync.Mutex
	accepted := make([]string, 0, 128)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				line := fmt.Sprintf("kept-%d-%d", g, i)
				if err := c.Enqueue([]byte(line + "\n")); err != nil {
					if !errors.Is(err, ErrClosed) {
						t.Errorf("err = %v", err)
					}
					return
				}
				mu.Lock()
				accepted = append(accepted, line)
				mu.Unlock()
			}
		}(g)
	}
	go func() { _ = c.Close() }()
	wg.Wait()
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out := sink.String()
	for _, line := range accepted {
		if !strings.Contains(out, line) {
			t.Fatalf("accepted payload %q never emitted", line)
		}
	}
}

func TestCloseIdempotent(t *testing.T) {
	c := New(&syncSink{}, 2)
	if err := c.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestRenderDiffsAgainstLastFrame(t *testing.T) {
	sink := &syncSink{}
	c := New(sink, 2)

	if err := c.Render(testFrame([]string{"> a"}, 0, 3)); err != nil {
		t.Fatalf("render: %v", err)
	}
	before := len(sink.String())
	if err := c.Render(testFrame([]string{"> a"}, 0, 2)); err != nil {
		t.Fatalf("render: %v", err)
	}
	delta := sink.String()[before:]
	if strings.Contains(delta, "> a") {
		t.Errorf("identical rows should not be rewritten, got %q", delta)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestInvalidateForcesFullRedraw(t *testing.T) {
	sink := &syncSink{}
	c := New(sink, 2)

	if err := c.Render(testFrame([]string{"> abc"}, 0, 5)); err != nil {
		t.Fatalf("render: %v", err)
	}
	c.Invalidate()
	before := len(sink.String())
	if err := c.Render(testFrame([]string{"> abc"}, 0, 5)); err != nil {
		t.Fatalf("render: %v", err)
	}
	delta := sink.String()[before:]
	if !strings.Contains(delta, "> abc") {
		t.Errorf("render after Invalidate should redraw rows, got %q", delta)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestEchoEmitsAbovePrompt(t *testing.T) {
	sink := &syncSink{}
	c := New(sink, 2)

	if err := c.Render(testFrame([]string{"> "}, 0, 2)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := c.Echo([]byte("> aborted\n")); err != nil {
		t.Fatalf("echo: %v", err)
	}
	if !strings.Contains(sink.String(), "> aborted") {
		t.Errorf("echo payload missing: %q", sink.String())
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
