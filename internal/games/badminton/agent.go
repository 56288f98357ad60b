package badminton

import "github.com/vovakirdan/tui-badminton/internal/core"

// Intent is what an agent asks its player to do for one tick.
// Requests the player cannot honor are ignored.
type Intent struct {
	Move   int // -1 left, 0 stay, 1 right
	Jump   bool
	Swing  bool
	Charge bool
}

// Agent decides a player's intent from a read-only view of the world.
type Agent interface {
	Decide(w WorldSnapshot) Intent
}

// WorldSnapshot is a Snapshot seen from one side.
type WorldSnapshot struct {
	Snapshot
	Self core.PlayerID
}

// Me returns the deciding player's view.
func (w WorldSnapshot) Me() PlayerView {
	return w.Players[w.Self.Index()]
}

// Opponent returns the other player's view.
func (w WorldSnapshot) Opponent() PlayerView {
	return w.Players[w.Self.Opponent().Index()]
}

// IntentFromInput maps held actions to an intent, one to one.
func IntentFromInput(in core.InputFrame) Intent {
	var it Intent
	if in.Has(core.ActionLeft) {
		it.Move--
	}
	if in.Has(core.ActionRight) {
		it.Move++
	}
	it.Jump = in.Has(core.ActionJump)
	it.Swing = in.Has(core.ActionSwing)
	it.Charge = in.Has(core.ActionCharge)
	return it
}

// HumanAgent replays the most recent decoded input.
type HumanAgent struct {
	input core.InputFrame
}

// NewHumanAgent creates an agent with no keys held.
func NewHumanAgent() *HumanAgent {
	return &HumanAgent{input: core.NewInputFrame()}
}

// SetInput stores the input frame for the next Decide.
func (h *HumanAgent) SetInput(in core.InputFrame) {
	h.input = in
}

// Decide implements Agent.
func (h *HumanAgent) Decide(WorldSnapshot) Intent {
	return IntentFromInput(h.input)
}
