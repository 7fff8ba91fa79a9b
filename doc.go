// Package lineweave is a non-blocking, interleavable line editor for
// programs that keep writing to the terminal while the user types.
//
// A Readline session owns the prompt: it reads key events from a
// terminal driver, maintains a grapheme-aware (possibly multiline) edit
// buffer, and renders it with exact display-width arithmetic under
// terminal wrapping. Any number of goroutines may hold SharedWriter
// handles; their output is emitted above the active prompt, which is
// erased and redrawn around each payload, so concurrent logging never
// corrupts the line being edited.
//
//	rl, err := lineweave.New(lineweave.WithPrompt("> "))
//	if err != nil { ... }
//	defer rl.Close()
//
//	log := rl.Writer()
//	go func() { _ = log.WriteLine("server started") }()
//
//	for {
//		line, err := rl.NextLine(ctx)
//		switch {
//		case errors.Is(err, lineweave.ErrInterrupted):
//			continue
//		case errors.Is(err, io.EOF):
//			return
//		case err != nil:
//			return
//		}
//		handle(line)
//	}
package lineweave
