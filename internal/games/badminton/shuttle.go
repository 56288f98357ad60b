package badminton

import (
	"math"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
)

// Shuttle is the projectile. Pos is the center of its bounding circle.
type Shuttle struct {
	Body

	Radius     float64
	InPlay     bool
	LastHitter core.PlayerID

	cfg config.ShuttleConfig
}

// NewShuttle creates a shuttle that is not in play.
func NewShuttle(cfg config.ShuttleConfig) *Shuttle {
	return &Shuttle{Radius: cfg.Radius, cfg: cfg}
}

// Step advances one tick of flight: drag, then gravity, then position.
// A shuttle that is not in play does not move.
func (s *Shuttle) Step() {
	if !s.InPlay {
		return
	}
	s.Vel = stepVelocity(s.Vel, s.cfg)
	s.Pos = s.Pos.Add(s.Vel)
}

// stepVelocity applies quadratic drag and gravity to v.
func stepVelocity(v core.Vec2, cfg config.ShuttleConfig) core.Vec2 {
	speed := v.Len()
	v = v.Sub(v.Scale(cfg.DragCoeff * speed))
	v.Y += cfg.Gravity
	return v
}

// ServePosition returns the serve-ready point for a server. The point never
// leaves the server's half: the shuttle stays clear of the net column.
func (s *Shuttle) ServePosition(server *Player) core.Vec2 {
	x := server.Pos.X + float64(server.Facing)*s.cfg.ServeOffsetX
	netX := server.court.NetX()
	gap := server.court.NetWidth/2 + s.Radius
	if server.Facing == FacingRight {
		x = math.Min(x, netX-gap)
	} else {
		x = math.Max(x, netX+gap)
	}
	return core.Vec2{X: x, Y: server.Pos.Y + s.cfg.ServeOffsetY}
}

// Pin takes the shuttle out of play, clears the last hitter and holds it
// at the server's serve-ready point.
func (s *Shuttle) Pin(server *Player) {
	s.InPlay = false
	s.LastHitter = core.NoPlayer
	s.Vel = core.Vec2{}
	s.OnGround = false
	s.Pos = s.ServePosition(server)
}

// Launch puts the shuttle in play with the given velocity.
func (s *Shuttle) Launch(vel core.Vec2, hitter core.PlayerID) {
	s.Vel = vel
	s.InPlay = true
	s.LastHitter = hitter
}

// Bottom returns the lower bound of the bounding circle.
func (s *Shuttle) Bottom() float64 {
	return s.Pos.Y + s.Radius
}

// PredictLanding forward-simulates a copy of the shuttle until it reaches
// groundY and returns the landing x. Prediction stops after maxTicks steps.
// A shuttle that is not in play lands where it is.
func (s *Shuttle) PredictLanding(groundY float64, maxTicks int) float64 {
	if !s.InPlay {
		return s.Pos.X
	}
	pos, vel := s.Pos, s.Vel
	for i := 0; i < maxTicks; i++ {
		vel = stepVelocity(vel, s.cfg)
		pos = pos.Add(vel)
		if pos.Y+s.Radius >= groundY {
			break
		}
	}
	return pos.X
}

// launchVelocity returns a velocity of the given speed at angle degrees
// above horizontal, heading in facing's direction.
func launchVelocity(speed, angleDeg float64, facing Facing) core.Vec2 {
	rad := angleDeg * math.Pi / 180
	return core.Vec2{
		X: float64(facing) * speed * math.Cos(rad),
		Y: -speed * math.Sin(rad),
	}
}
