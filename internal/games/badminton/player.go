package badminton

import (
	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
)

// Facing is the horizontal direction a player's racket points to.
type Facing int

const (
	FacingLeft  Facing = -1
	FacingRight Facing = 1
)

// Player is one athlete: a body, its swing state and shot charge.
// Pos.X is the body's center, Pos.Y its top edge.
type Player struct {
	Body

	ID      core.PlayerID
	Width   float64
	Height  float64
	Facing  Facing
	IsHuman bool

	Swinging      bool
	SwingTimer    int // Ticks left in the hit window
	SwingCooldown int // Ticks until another swing may start
	PreparePower  float64

	// SpeedFactor scales the configured move speed.
	SpeedFactor float64

	move   int
	start  core.Vec2
	minX   float64
	maxX   float64
	body   config.PlayerConfig
	racket config.RacketConfig
	court  config.CourtConfig
}

// NewPlayer creates a player standing at its side's start position.
// Player1 takes the left half facing right, Player2 the right half facing left.
func NewPlayer(id core.PlayerID, cfg config.BadmintonConfig, human bool) *Player {
	p := &Player{
		ID:          id,
		Width:       cfg.Player.Width,
		Height:      cfg.Player.Height,
		IsHuman:     human,
		SpeedFactor: 1,
		body:        cfg.Player,
		racket:      cfg.Racket,
		court:       cfg.Court,
	}

	baseY := cfg.Court.GroundY - cfg.Player.Height
	minX, maxX, startX := sideBounds(id, cfg)
	p.start = core.Vec2{X: startX, Y: baseY}
	p.minX, p.maxX = minX, maxX
	p.Facing = FacingRight
	if id == core.Player2 {
		p.Facing = FacingLeft
	}
	p.ResetStance()
	return p
}

// ResetStance puts the player back at its start position with no motion
// and no swing in progress.
func (p *Player) ResetStance() {
	p.Pos = p.start
	p.Vel = core.Vec2{}
	p.OnGround = true
	p.Swinging = false
	p.SwingTimer = 0
	p.SwingCooldown = 0
	p.PreparePower = 0
	p.move = 0
}

// SetHorizontalIntent sets the walking direction for the next Move.
// Values outside [-1, 1] are clamped.
func (p *Player) SetHorizontalIntent(dir int) {
	p.move = core.Clamp(dir, -1, 1)
}

// RequestJump starts a jump if the player is on the ground.
func (p *Player) RequestJump() bool {
	if !p.OnGround {
		return false
	}
	p.Vel.Y = p.body.JumpVelocity
	p.OnGround = false
	return true
}

// RequestSwing opens the hit window if the cooldown has elapsed.
func (p *Player) RequestSwing() bool {
	if p.SwingCooldown != 0 {
		return false
	}
	p.Swinging = true
	p.SwingTimer = p.racket.SwingWindow
	p.SwingCooldown = p.racket.SwingCooldown
	return true
}

// Charge builds shot power while held and lets it decay otherwise.
func (p *Player) Charge(held bool) {
	if held {
		p.PreparePower = core.ClampF(p.PreparePower+p.body.ChargeRate, 0, p.body.MaxPreparePower)
		return
	}
	p.PreparePower *= p.body.ChargeDecay
}

// Move applies the horizontal intent, integrates the body and keeps the
// player inside its half.
func (p *Player) Move() {
	p.Vel.X = float64(p.move) * p.body.Speed * p.SpeedFactor
	p.Integrate(p.body.Gravity, p.court.GroundY, p.Height)
	p.Pos.X = core.ClampF(p.Pos.X, p.minX, p.maxX)
}

// Tick advances the swing timers by one tick.
func (p *Player) Tick() {
	if p.SwingCooldown > 0 {
		p.SwingCooldown--
	}
	if p.SwingTimer > 0 {
		p.SwingTimer--
		if p.SwingTimer == 0 {
			p.Swinging = false
			p.PreparePower = 0
		}
	}
}

// Rect returns the player's bounding box.
func (p *Player) Rect() core.FRect {
	return core.FRect{X: p.Pos.X - p.Width/2, Y: p.Pos.Y, W: p.Width, H: p.Height}
}

// RacketRect returns the hit region, mirrored for left-facing players.
func (p *Player) RacketRect() core.FRect {
	x := p.Pos.X + p.racket.OffsetX
	if p.Facing == FacingLeft {
		x = p.Pos.X - p.racket.OffsetX - p.racket.Width
	}
	return core.FRect{X: x, Y: p.Pos.Y + p.racket.OffsetY, W: p.racket.Width, H: p.racket.Height}
}

// Start returns the stance position used after every point.
func (p *Player) Start() core.Vec2 {
	return p.start
}

// Side returns the x-range the player is confined to.
func (p *Player) Side() (minX, maxX float64) {
	return p.minX, p.maxX
}

// timersConsistent reports whether the swing invariant holds.
func (p *Player) timersConsistent() bool {
	return p.Swinging == (p.SwingTimer > 0) && p.SwingTimer >= 0 && p.SwingCooldown >= 0
}
