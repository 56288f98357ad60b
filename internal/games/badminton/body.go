// Package badminton implements the side-view badminton simulation:
// body integration, players, shuttle flight, contact resolution, the
// serve/rally/score state machine and the match rules.
//
// The world is a fixed-step, single-threaded simulation. A Session owns
// all mutable state and advances it exactly once per Step call.
package badminton

import "github.com/vovakirdan/tui-badminton/internal/core"

// Body is a point mass with a ground contact flag.
// Pos is top-anchored for players and centered for the shuttle.
type Body struct {
	Pos      core.Vec2
	Vel      core.Vec2
	OnGround bool
}

// Integrate advances b by one tick.
// height is the extent below Pos that must stay above groundY.
func (b *Body) Integrate(gravity, groundY, height float64) {
	b.Pos = b.Pos.Add(b.Vel)
	if !b.OnGround {
		b.Vel.Y += gravity
	}
	if b.Pos.Y+height >= groundY {
		b.Pos.Y = groundY - height
		b.Vel.Y = 0
		b.OnGround = true
	}
}
