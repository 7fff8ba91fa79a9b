package lineweave

import (
	"io"
	"log/slog"

	"github.com/dshills/lineweave/internal/term"
)

// config holds construction-time session settings.
type config struct {
	prompt       string
	continuation string
	historyCap   int
	historySeed  []string
	keymapName   string
	keymapFile   string
	driver       term.Driver
	output       io.Writer
	queueDepth   int
	logger       *slog.Logger
}

// Option is a functional option for configuring a session.
type Option func(*config)

// WithPrompt sets the primary prompt shown on the first row.
func WithPrompt(prompt string) Option {
	return func(c *config) {
		c.prompt = prompt
	}
}

// WithContinuationPrompt sets the prefix shown on wrapped and explicit
// continuation rows.
func WithContinuationPrompt(prompt string) Option {
	return func(c *config) {
		c.continuation = prompt
	}
}

// WithHistoryCapacity bounds the history store; the oldest entry is
// evicted on overflow.
func WithHistoryCapacity(capacity int) Option {
	return func(c *config) {
		if capacity > 0 {
			c.historyCap = capacity
		}
	}
}

// WithHistory seeds the store with previously persisted lines, oldest
// first. Persistence itself is the caller's responsibility.
func WithHistory(lines []string) Option {
	return func(c *config) {
		c.historySeed = lines
	}
}

// WithKeymap selects the keybinding mode by name. "emacs" is the only
// built-in mode.
func WithKeymap(name string) Option {
	return func(c *config) {
		c.keymapName = name
	}
}

// WithKeymapFile layers user binding overrides from a TOML or YAML file
// on top of the selected mode.
func WithKeymapFile(path string) Option {
	return func(c *config) {
		c.keymapFile = path
	}
}

// WithDriver injects a terminal driver. Without it the session opens the
// controlling terminal in raw mode.
func WithDriver(d term.Driver) Option {
	return func(c *config) {
		c.driver = d
	}
}

// WithOutput redirects terminal output, for tests and recording. With a
// driver also injected the session touches no real terminal at all.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// WithWriteQueueDepth bounds the shared writer queue. Producers block
// when it is full.
func WithWriteQueueDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.queueDepth = depth
		}
	}
}

// WithLogger attaches a logger for debug traces. The terminal itself is
// busy, so point the handler somewhere else (a file, a buffer).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}
