package keymap

import "fmt"

// Action is an editing or control operation selected by a keybinding
// mode. The session interprets actions; modes only select them.
type Action uint8

const (
	// ActionNone means the event has no binding and no default.
	ActionNone Action = iota

	// ActionInsertRune inserts the event's character at the cursor.
	ActionInsertRune

	// Cursor motion.
	ActionMoveLeft
	ActionMoveRight
	ActionMoveWordLeft
	ActionMoveWordRight
	ActionMoveRowUp
	ActionMoveRowDown
	ActionHome
	ActionEnd

	// Deletion.
	ActionDeleteBack
	ActionDeleteForward
	ActionDeleteWordBack
	ActionDeleteToEnd
	ActionClearLine

	// Screen.
	ActionClearScreen

	// History.
	ActionHistoryPrev
	ActionHistoryNext

	// Session control.
	ActionInsertNewline
	ActionSubmit
	ActionInterrupt
	ActionEndOfInput
)

// String returns the action's canonical name, the same name accepted in
// keymap override files.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", a)
}

var actionNames = map[Action]string{
	ActionNone:           "none",
	ActionInsertRune:     "insert-rune",
	ActionMoveLeft:       "move-left",
	ActionMoveRight:      "move-right",
	ActionMoveWordLeft:   "move-word-left",
	ActionMoveWordRight:  "move-word-right",
	ActionMoveRowUp:      "move-row-up",
	ActionMoveRowDown:    "move-row-down",
	ActionHome:           "home",
	ActionEnd:            "end",
	ActionDeleteBack:     "delete-back",
	ActionDeleteForward:  "delete-forward",
	ActionDeleteWordBack: "delete-word-back",
	ActionDeleteToEnd:    "delete-to-end",
	ActionClearLine:      "clear-line",
	ActionClearScreen:    "clear-screen",
	ActionHistoryPrev:    "history-prev",
	ActionHistoryNext:    "history-next",
	ActionInsertNewline:  "insert-newline",
	ActionSubmit:         "submit",
	ActionInterrupt:      "interrupt",
	ActionEndOfInput:     "end-of-input",
}

var actionsByName = func() map[string]Action {
	m := make(map[string]Action, len(actionNames))
	for a, name := range actionNames {
		m[name] = a
	}
	return m
}()

// ActionFromName returns the Action for a canonical name. The boolean is
// false for unknown names.
func ActionFromName(name string) (Action, bool) {
	a, ok := actionsByName[name]
	return a, ok
}
