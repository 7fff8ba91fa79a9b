// Package main is an interactive demo shell for the lineweave library:
// a prompt loop with concurrent background output above it.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dshills/lineweave"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	prompt      string
	keymapFile  string
	historyFile string
	logFile     string
	ticker      bool
}

func run() int {
	opts := parseFlags()

	sessionOpts := []lineweave.Option{
		lineweave.WithPrompt(opts.prompt),
	}
	if opts.keymapFile != "" {
		sessionOpts = append(sessionOpts, lineweave.WithKeymapFile(opts.keymapFile))
	}
	if opts.historyFile != "" {
		seed, err := loadHistory(opts.historyFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load history: %v\n", err)
			return 1
		}
		sessionOpts = append(sessionOpts, lineweave.WithHistory(seed))
	}
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		sessionOpts = append(sessionOpts, lineweave.WithLogger(logger))
	}

	rl, err := lineweave.New(sessionOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer rl.Close()

	// A background producer writing above the prompt, to show that
	// typing and output interleave cleanly.
	stopTicker := make(chan struct{})
	if opts.ticker {
		go tick(rl.Writer(), stopTicker)
	}
	defer close(stopTicker)

	out := rl.Writer()
	for {
		line, err := rl.NextLine(context.Background())
		switch {
		case errors.Is(err, io.EOF):
			if opts.historyFile != "" {
				if serr := saveHistory(rl, opts.historyFile); serr != nil {
					fmt.Fprintf(os.Stderr, "Error: failed to save history: %v\n", serr)
					return 1
				}
			}
			return 0
		case errors.Is(err, lineweave.ErrInterrupted):
			continue
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := out.WriteLine("you said: " + line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
}

// tick emits a timestamped line above the prompt every two seconds.
func tick(w *lineweave.SharedWriter, stop <-chan struct{}) {
	t := time.NewTicker(2 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			if err := w.WriteLine("[tick] " + now.Format(time.TimeOnly)); err != nil {
				return
			}
		}
	}
}

func loadHistory(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := sc.Text(); s != "" {
			lines = append(lines, s)
		}
	}
	return lines, sc.Err()
}

func saveHistory(rl *lineweave.Readline, path string) error {
	var b strings.Builder
	for _, e := range rl.History() {
		// Multi-line entries do not survive a line-per-entry file.
		if strings.ContainsRune(e.Text, '\n') {
			continue
		}
		b.WriteString(e.Text)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.prompt, "prompt", "> ", "Primary prompt string")
	flag.StringVar(&opts.prompt, "p", "> ", "Primary prompt string (shorthand)")
	flag.StringVar(&opts.keymapFile, "keymap", "", "Path to a TOML or YAML keybinding override file")
	flag.StringVar(&opts.keymapFile, "k", "", "Path to a keybinding override file (shorthand)")
	flag.StringVar(&opts.historyFile, "history", "", "Path to a history file to load and save")
	flag.StringVar(&opts.logFile, "log", "", "Path to a debug log file")
	flag.BoolVar(&opts.ticker, "ticker", true, "Emit a background tick line above the prompt")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "lineweave-demo - interactive readline demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: lineweave-demo [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPress Ctrl-D on an empty line to exit.\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("lineweave-demo %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
