package lineweave

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dshills/lineweave/internal/key"
	"github.com/dshills/lineweave/internal/term"
)

// fakeDriver feeds scripted events to a session. Tests push events into
// ch before or while NextLine runs.
type fakeDriver struct {
	ch   chan term.Event
	cols int
	rows int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{ch: make(chan term.Event, 64), cols: 80, rows: 24}
}

func (d *fakeDriver) Events() <-chan term.Event { return d.ch }
func (d *fakeDriver) Size() (int, int)          { return d.cols, d.rows }
func (d *fakeDriver) Close() error              { return nil }

func (d *fakeDriver) typeText(s string) {
	for _, r := range s {
		d.ch <- term.KeyEvent{Key: key.RuneEvent(r, key.ModNone)}
	}
}

func (d *fakeDriver) press(ev key.Event) {
	d.ch <- term.KeyEvent{Key: ev}
}

// lockedBuf is a goroutine-safe output sink. Writer payloads are emitted
// from the coordinator's goroutine, so the sink sees concurrent writes.
type lockedBuf struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuf) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuf) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newSession(t *testing.T, opts ...Option) (*Readline, *fakeDriver, *lockedBuf) {
	t.Helper()
	drv := newFakeDriver()
	out := &lockedBuf{}
	r, err := New(append([]Option{WithDriver(drv), WithOutput(out)}, opts...)...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r, drv, out
}

func TestSubmitLine(t *testing.T) {
	r, drv, out := newSession(t)

	drv.typeText("hello 世界")
	drv.press(key.Special(key.KeyEnter, key.ModNone))

	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "hello 世界" {
		t.Errorf("line = %q, want %q", line, "hello 世界")
	}
	if !strings.Contains(out.String(), "> hello 世界") {
		t.Errorf("typed text never rendered: %q", out.String())
	}
}

func TestEditingBeforeSubmit(t *testing.T) {
	r, drv, _ := newSession(t)

	drv.typeText("helXlo")
	// Move left over "lo", delete the stray X.
	drv.press(key.Special(key.KeyLeft, key.ModNone))
	drv.press(key.Special(key.KeyLeft, key.ModNone))
	drv.press(key.Special(key.KeyBackspace, key.ModNone))
	drv.press(key.Special(key.KeyEnter, key.ModNone))

	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "hello" {
		t.Errorf("line = %q, want %q", line, "hello")
	}
}

func TestInterruptEmptyBuffer(t *testing.T) {
	r, drv, _ := newSession(t)

	drv.press(key.Ctrl('c'))
	if _, err := r.NextLine(context.Background()); !errors.Is(err, ErrInterrupted) {
		t.Errorf("err = %v, want ErrInterrupted", err)
	}

	// The session survives an interrupt.
	drv.typeText("ok")
	drv.press(key.Special(key.KeyEnter, key.ModNone))
	line, err := r.NextLine(context.Background())
	if err != nil || line != "ok" {
		t.Errorf("NextLine after interrupt = %q, %v", line, err)
	}
}

func TestInterruptDiscardsBufferAndEchoes(t *testing.T) {
	r, drv, out := newSession(t)

	drv.typeText("doomed")
	drv.press(key.Ctrl('c'))
	if _, err := r.NextLine(context.Background()); !errors.Is(err, ErrInterrupted) {
		t.Fatalf("err = %v, want ErrInterrupted", err)
	}
	if !strings.Contains(out.String(), "> doomed") {
		t.Errorf("aborted line not echoed: %q", out.String())
	}

	// The discarded text must not leak into the next submission.
	drv.press(key.Special(key.KeyEnter, key.ModNone))
	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "" {
		t.Errorf("line = %q, want empty after discard", line)
	}
}

func TestEndOfInput(t *testing.T) {
	r, drv, _ := newSession(t)

	drv.press(key.Ctrl('d'))
	if _, err := r.NextLine(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestEndOfInputDeletesForwardWhenNotEmpty(t *testing.T) {
	r, drv, _ := newSession(t)

	drv.typeText("abc")
	drv.press(key.Special(key.KeyHome, key.ModNone))
	drv.press(key.Ctrl('d'))
	drv.press(key.Special(key.KeyEnter, key.ModNone))

	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "bc" {
		t.Errorf("line = %q, want %q", line, "bc")
	}
}

func TestMultilineSubmit(t *testing.T) {
	r, drv, out := newSession(t)

	drv.typeText("first")
	drv.press(key.Special(key.KeyEnter, key.ModAlt))
	drv.typeText("second")
	drv.press(key.Special(key.KeyEnter, key.ModNone))

	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "first\nsecond" {
		t.Errorf("line = %q, want %q", line, "first\nsecond")
	}
	if !strings.Contains(out.String(), "| second") {
		t.Errorf("continuation row not rendered: %q", out.String())
	}
}

func TestHistoryBrowse(t *testing.T) {
	r, drv, _ := newSession(t)

	for _, s := range []string{"one", "two"} {
		drv.typeText(s)
		drv.press(key.Special(key.KeyEnter, key.ModNone))
		if _, err := r.NextLine(context.Background()); err != nil {
			t.Fatalf("submit %q: %v", s, err)
		}
	}

	// Browse up past both entries, then back down to the uncommitted
	// draft, and submit it untouched.
	drv.typeText("draft")
	drv.press(key.Special(key.KeyUp, key.ModNone))
	drv.press(key.Special(key.KeyUp, key.ModNone))
	drv.press(key.Special(key.KeyDown, key.ModNone))
	drv.press(key.Special(key.KeyDown, key.ModNone))
	drv.press(key.Special(key.KeyEnter, key.ModNone))

	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "draft" {
		t.Errorf("line = %q, want restored draft", line)
	}
}

func TestHistoryRecallSubmit(t *testing.T) {
	r, drv, _ := newSession(t)

	drv.typeText("recall me")
	drv.press(key.Special(key.KeyEnter, key.ModNone))
	if _, err := r.NextLine(context.Background()); err != nil {
		t.Fatal(err)
	}

	drv.press(key.Special(key.KeyUp, key.ModNone))
	drv.press(key.Special(key.KeyEnter, key.ModNone))
	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "recall me" {
		t.Errorf("line = %q, want recalled entry", line)
	}
}

func TestHistorySkipsDuplicatesAndEmpty(t *testing.T) {
	r, drv, _ := newSession(t)

	for _, s := range []string{"same", "same", ""} {
		drv.typeText(s)
		drv.press(key.Special(key.KeyEnter, key.ModNone))
		if _, err := r.NextLine(context.Background()); err != nil {
			t.Fatalf("submit %q: %v", s, err)
		}
	}

	entries := r.History()
	if len(entries) != 1 || entries[0].Text != "same" {
		t.Errorf("history = %+v, want single %q entry", entries, "same")
	}
}

func TestHistorySeed(t *testing.T) {
	r, drv, _ := newSession(t, WithHistory([]string{"older", "newer"}))

	drv.press(key.Special(key.KeyUp, key.ModNone))
	drv.press(key.Special(key.KeyEnter, key.ModNone))
	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "newer" {
		t.Errorf("line = %q, want seeded entry", line)
	}
}

func TestResizeRedraws(t *testing.T) {
	r, drv, out := newSession(t)

	drv.typeText("abc")
	drv.ch <- term.ResizeEvent{Cols: 40, Rows: 20}
	drv.press(key.Special(key.KeyEnter, key.ModNone))

	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "abc" {
		t.Errorf("line = %q", line)
	}
	// The resize forces a full redraw of the already-typed text.
	if strings.Count(out.String(), "> abc") < 2 {
		t.Errorf("expected a redraw after resize: %q", out.String())
	}
}

func TestCancelPreservesBuffer(t *testing.T) {
	r, drv, _ := newSession(t)

	drv.typeText("kept")
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	if _, err := r.NextLine(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	// The typed text survives the abandoned read.
	drv.press(key.Special(key.KeyEnter, key.ModNone))
	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "kept" {
		t.Errorf("line = %q, want buffer preserved across cancel", line)
	}
}

func TestWriterOutputAbovePrompt(t *testing.T) {
	r, drv, out := newSession(t)

	drv.typeText("par")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := r.NextLine(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}

	w := r.Writer()
	if err := w.WriteLine("log entry"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s := out.String()
	payload := strings.Index(s, "log entry")
	if payload < 0 {
		t.Fatalf("payload missing: %q", s)
	}
	if strings.LastIndex(s, "> par") < payload {
		t.Errorf("prompt not redrawn below payload: %q", s)
	}
}

func TestWriterAfterClose(t *testing.T) {
	r, _, _ := newSession(t)
	w := r.Writer()
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := w.Write([]byte("late\n")); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestWriterHandlesAreDistinct(t *testing.T) {
	r, _, _ := newSession(t)
	if r.Writer().ID() == r.Writer().ID() {
		t.Error("writer handles should have distinct IDs")
	}
}

func TestNextLineAfterClose(t *testing.T) {
	r, _, _ := newSession(t)
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := r.NextLine(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestInvalidInputIsRecoverable(t *testing.T) {
	r, drv, _ := newSession(t)

	drv.ch <- term.ErrorEvent{Err: term.ErrInvalidInput}
	drv.typeText("a")
	drv.press(key.Special(key.KeyEnter, key.ModNone))

	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "a" {
		t.Errorf("line = %q", line)
	}
}

func TestFatalDriverErrorIsSticky(t *testing.T) {
	r, drv, _ := newSession(t)

	drv.ch <- term.ErrorEvent{Err: errors.New("tty gone")}
	_, err := r.NextLine(context.Background())
	if err == nil {
		t.Fatal("expected a fatal error")
	}
	if _, err2 := r.NextLine(context.Background()); !errors.Is(err2, err) {
		t.Errorf("second NextLine = %v, want sticky %v", err2, err)
	}
}

func TestSetPromptRedraws(t *testing.T) {
	r, _, out := newSession(t)

	r.SetPrompt("db> ")
	if !strings.Contains(out.String(), "db> ") {
		t.Errorf("new prompt not rendered: %q", out.String())
	}
}

func TestKeymapFileOption(t *testing.T) {
	drv := newFakeDriver()
	out := &lockedBuf{}
	path := writeTempFile(t, "keys.toml", `
[[bindings]]
keys = "Ctrl+T"
action = "delete-back"
`)
	r, err := New(WithDriver(drv), WithOutput(out), WithKeymapFile(path))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	drv.typeText("ab")
	drv.press(key.Ctrl('t'))
	drv.press(key.Special(key.KeyEnter, key.ModNone))

	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "a" {
		t.Errorf("line = %q, want override to delete back", line)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestClearLine(t *testing.T) {
	r, drv, _ := newSession(t)

	drv.typeText("wipe me")
	drv.press(key.Ctrl('u'))
	drv.typeText("kept")
	drv.press(key.Special(key.KeyEnter, key.ModNone))

	line, err := r.NextLine(context.Background())
	if err != nil {
		t.Fatalf("NextLine: %v", err)
	}
	if line != "kept" {
		t.Errorf("line = %q, want %q", line, "kept")
	}
}
