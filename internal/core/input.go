package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, H, Left arrow - shift the falling tile left
	ActionRight          // D, L, Right arrow - shift the falling tile right
	ActionDrop           // Space, S, J, Down arrow - hard drop
	ActionUp             // W, K, Up arrow - menu navigation
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game

	// ActionColumn1 through ActionColumn9 move the falling tile straight to a column.
	ActionColumn1
	ActionColumn2
	ActionColumn3
	ActionColumn4
	ActionColumn5
	ActionColumn6
	ActionColumn7
	ActionColumn8
	ActionColumn9
)

// MaxColumnActions is the number of direct column actions.
const MaxColumnActions = 9

// ColumnAction returns the action that targets column x (zero-based).
// Returns ActionNone for columns without a direct action.
func ColumnAction(x int) Action {
	if x < 0 || x >= MaxColumnActions {
		return ActionNone
	}
	return ActionColumn1 + Action(x)
}

// Column returns the zero-based column targeted by a column action.
func (a Action) Column() (int, bool) {
	if a < ActionColumn1 || a > ActionColumn9 {
		return 0, false
	}
	return int(a - ActionColumn1), true
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if x, ok := a.Column(); ok {
		return "Column" + string(rune('1'+x))
	}
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionDrop:
		return "Drop"
	case ActionUp:
		return "Up"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputFrame represents the player's input during one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// TargetColumn returns the lowest column targeted by a column action this frame.
func (f InputFrame) TargetColumn() (int, bool) {
	for x := 0; x < MaxColumnActions; x++ {
		if f.Has(ColumnAction(x)) {
			return x, true
		}
	}
	return 0, false
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
