package core

import "fmt"

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - move toward the left baseline
	ActionRight          // D, Right arrow - move toward the right baseline
	ActionJump           // W, Up arrow - jump
	ActionSwing          // Space - swing the racket (also serves)
	ActionCharge         // X - charge shot power while held
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back
	ActionRestart        // R key - restart match after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionSwing:
		return "Swing"
	case ActionCharge:
		return "Charge"
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

// InputFrame is the set of actions held by the local player during one tick.
// The zero value is an empty frame.
type InputFrame struct {
	bits uint32
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set marks an action as active for this frame.
func (f *InputFrame) Set(a Action) {
	if a <= ActionNone || a > ActionPause {
		return
	}
	f.bits |= 1 << uint(a)
}

// Has returns true if the given action is active this frame.
func (f InputFrame) Has(a Action) bool {
	if a <= ActionNone || a > ActionPause {
		return false
	}
	return f.bits&(1<<uint(a)) != 0
}

// Empty reports whether no action is held.
func (f InputFrame) Empty() bool {
	return f.bits == 0
}

// Actions lists the held actions in declaration order.
func (f InputFrame) Actions() []Action {
	var out []Action
	for a := ActionLeft; a <= ActionPause; a++ {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// String lists the held actions, e.g. "[Left Swing]".
func (f InputFrame) String() string {
	return fmt.Sprint(f.Actions())
}
