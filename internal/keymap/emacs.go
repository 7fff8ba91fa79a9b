package keymap

import "github.com/dshills/lineweave/internal/key"

// Emacs returns the built-in emacs keybinding mode.
//
// Ctrl-D maps to ActionEndOfInput unconditionally; the session turns it
// into delete-forward when the buffer is non-empty, matching
// conventional terminal semantics. Likewise Ctrl-C always maps to
// ActionInterrupt and the session decides whether to echo the discarded
// line before reporting the interrupt.
func Emacs() Mode {
	return &tableMode{
		name: "emacs",
		bindings: map[key.Event]Action{
			// Motion.
			key.Special(key.KeyLeft, key.ModNone):  ActionMoveLeft,
			key.Special(key.KeyRight, key.ModNone): ActionMoveRight,
			key.Ctrl('b'):                          ActionMoveLeft,
			key.Ctrl('f'):                          ActionMoveRight,
			key.Special(key.KeyLeft, key.ModCtrl):  ActionMoveWordLeft,
			key.Special(key.KeyRight, key.ModCtrl): ActionMoveWordRight,
			key.RuneEvent('b', key.ModAlt):         ActionMoveWordLeft,
			key.RuneEvent('f', key.ModAlt):         ActionMoveWordRight,
			key.Special(key.KeyHome, key.ModNone):  ActionHome,
			key.Special(key.KeyEnd, key.ModNone):   ActionEnd,
			key.Ctrl('a'):                          ActionHome,
			key.Ctrl('e'):                          ActionEnd,
			key.Special(key.KeyUp, key.ModAlt):     ActionMoveRowUp,
			key.Special(key.KeyDown, key.ModAlt):   ActionMoveRowDown,

			// Deletion.
			key.Special(key.KeyBackspace, key.ModNone): ActionDeleteBack,
			key.Ctrl('h'): ActionDeleteBack,
			key.Special(key.KeyDelete, key.ModNone): ActionDeleteForward,
			key.Ctrl('w'): ActionDeleteWordBack,
			key.Special(key.KeyBackspace, key.ModAlt): ActionDeleteWordBack,
			key.Ctrl('k'): ActionDeleteToEnd,
			key.Ctrl('u'): ActionClearLine,

			// Screen.
			key.Ctrl('l'): ActionClearScreen,

			// History.
			key.Special(key.KeyUp, key.ModNone):   ActionHistoryPrev,
			key.Special(key.KeyDown, key.ModNone): ActionHistoryNext,
			key.Ctrl('p'):                         ActionHistoryPrev,
			key.Ctrl('n'):                         ActionHistoryNext,

			// Submission and control.
			key.Special(key.KeyEnter, key.ModNone): ActionSubmit,
			key.Special(key.KeyEnter, key.ModAlt):  ActionInsertNewline,
			key.Ctrl('j'):                          ActionInsertNewline,
			key.Ctrl('c'):                          ActionInterrupt,
			key.Ctrl('d'):                          ActionEndOfInput,
		},
	}
}
