package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-badminton/internal/core"
)

// Terminals report key presses but never releases. A held key is kept down
// for a number of ticks after each press, shorter once auto-repeat kicks in.
const (
	DefaultInitialHold = 18 // Ticks covering the terminal's repeat delay
	DefaultRepeatHold  = 5  // Ticks between auto-repeat events
)

// KeyMapper translates Bubble Tea key messages to game actions.
// Movement and charge are held actions; everything else fires once.
type KeyMapper struct {
	initialHold int
	repeatHold  int
	held        map[core.Action]int
	pulses      []core.Action
}

// NewKeyMapper creates a key mapper with default hold timing.
func NewKeyMapper() *KeyMapper {
	return NewKeyMapperWithHold(DefaultInitialHold, DefaultRepeatHold)
}

// NewKeyMapperWithHold creates a key mapper with custom hold timing.
func NewKeyMapperWithHold(initial, repeat int) *KeyMapper {
	return &KeyMapper{
		initialHold: max(initial, 1),
		repeatHold:  max(repeat, 1),
		held:        make(map[core.Action]int),
	}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case "w", "up":
		return core.ActionJump, false
	case " ":
		return core.ActionSwing, false
	case "x", "s", "down":
		return core.ActionCharge, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}
	return core.ActionNone, false
}

// isHeld reports whether a stays down between presses.
func isHeld(a core.Action) bool {
	switch a {
	case core.ActionLeft, core.ActionRight, core.ActionCharge:
		return true
	}
	return false
}

// Press records a key press. Returns true if the key was a quit request.
func (km *KeyMapper) Press(msg tea.KeyMsg) bool {
	action, isQuit := km.MapKey(msg)
	if isQuit || action == core.ActionNone {
		return isQuit
	}

	if !isHeld(action) {
		km.pulses = append(km.pulses, action)
		return false
	}

	switch action {
	case core.ActionLeft:
		delete(km.held, core.ActionRight)
	case core.ActionRight:
		delete(km.held, core.ActionLeft)
	}

	ticks := km.initialHold
	if km.held[action] > 0 {
		ticks = km.repeatHold
	}
	km.held[action] = ticks
	return false
}

// Pulse queues a one-tick action that did not come from a key.
func (km *KeyMapper) Pulse(a core.Action) {
	km.pulses = append(km.pulses, a)
}

// Frame returns the input for the next tick and ages held keys by one tick.
func (km *KeyMapper) Frame() core.InputFrame {
	frame := core.NewInputFrame()
	for action, ticks := range km.held {
		frame.Set(action)
		if ticks <= 1 {
			delete(km.held, action)
		} else {
			km.held[action] = ticks - 1
		}
	}
	for _, action := range km.pulses {
		frame.Set(action)
	}
	km.pulses = km.pulses[:0]
	return frame
}

// Release drops every held key and pending press.
func (km *KeyMapper) Release() {
	clear(km.held)
	km.pulses = km.pulses[:0]
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionRanks
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionRanks
	}
	return MenuActionNone
}
