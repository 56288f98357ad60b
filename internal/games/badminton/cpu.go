package badminton

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
)

// shotContacts are the racket-relative contact offsets a CPU chooses
// between, from a flat drive (-) to a lofted clear (+).
var shotContacts = [...]float64{-0.7, -0.2, 0.3, 0.8}

// CPUAgent is the default computer opponent.
//
// On each re-plan it simulates the incoming shuttle down to every candidate
// contact height, tries each return with and without charge against the
// resolver's rules, and keeps one that lands in the opponent's half. It then
// walks so its racket meets the shuttle there, swings on the tick the
// shuttle reaches that height and jumps only when the standing racket
// cannot reach the shuttle.
type CPUAgent struct {
	cfg      config.BadmintonConfig
	skill    config.Skill
	rng      *rand.Rand
	resolver *Resolver

	reaction  int
	targetX   float64
	contactY  float64
	charge    bool
	reachable bool
}

// NewCPUAgent creates a CPU agent. Equal seeds give equal decisions.
func NewCPUAgent(cfg config.BadmintonConfig, skill config.Skill, seed int64) *CPUAgent {
	return &CPUAgent{
		cfg:      cfg,
		skill:    skill,
		rng:      rand.New(rand.NewSource(seed)),
		resolver: NewResolver(cfg),
	}
}

// Skill returns the parameters the agent plays with.
func (a *CPUAgent) Skill() config.Skill {
	return a.skill
}

// Decide implements Agent.
func (a *CPUAgent) Decide(w WorldSnapshot) Intent {
	var in Intent
	me := w.Me()
	sh := w.Shuttle

	if w.Phase != PhaseInPlay {
		// Replan as soon as the rally starts.
		a.reaction = 0
		if w.Phase == PhaseAwaitingServe && w.Server == w.Self && me.SwingCooldown == 0 {
			in.Swing = a.rng.Float64() < a.cfg.CPU.ServeChance
		}
		return in
	}

	minX, maxX, startX := sideBounds(w.Self, a.cfg)
	if sh.LastHitter == w.Self {
		// Recover toward the start position while the shuttle is away.
		a.charge = false
		in.Move = a.stepToward(startX - me.Pos.X)
		return in
	}

	if a.reaction > 0 {
		a.reaction--
	} else {
		a.plan(w)
	}

	dx := a.targetX - me.Pos.X
	in.Move = a.stepToward(dx)
	in.Charge = a.charge

	// Where the racket will be once this tick's intent is applied.
	nextX := core.ClampF(me.Pos.X+float64(in.Move)*a.speed(), minX, maxX)
	shift := core.Vec2{X: nextX - me.Pos.X, Y: me.Vel.Y}
	if me.OnGround && (!a.reachable || math.Abs(dx) <= a.tolerance()) && a.jumpReaches(w) {
		in.Jump = a.rng.Float64() < a.cfg.CPU.JumpChance
		if in.Jump {
			shift.Y = a.cfg.Player.JumpVelocity
		}
	}

	if me.SwingCooldown == 0 && a.swingNow(w, me.Racket, shift, in.Jump || !me.OnGround) {
		in.Swing = a.rng.Float64() < a.cfg.CPU.SwingChance
	}
	return in
}

// swingNow reports whether the shuttle meets the racket next tick at or
// below the planned contact height, or would slip past it afterwards.
func (a *CPUAgent) swingNow(w WorldSnapshot, racket core.FRect, shift core.Vec2, airborne bool) bool {
	s := a.shuttleCopy(w)
	s.Step()
	r1 := offset(racket, shift)
	if !r1.IntersectsCircle(s.Pos, s.Radius) {
		return false
	}
	if s.Pos.Y >= a.contactY {
		return true
	}

	after := s
	after.Step()
	if after.Bottom() >= a.cfg.Court.GroundY {
		return true
	}
	fall := 0.0
	if airborne {
		fall = shift.Y + a.cfg.Player.Gravity
	}
	r2 := offset(r1, core.Vec2{X: shift.X, Y: fall})
	return !r2.IntersectsCircle(after.Pos, after.Radius)
}

// jumpReaches reports whether jumping now brings the racket onto the
// shuttle's path when standing still would not.
func (a *CPUAgent) jumpReaches(w WorldSnapshot) bool {
	me := w.Me()
	s := a.shuttleCopy(w)
	lift, vy := 0.0, a.cfg.Player.JumpVelocity
	jumped, stood := false, false
	for i := 0; i < a.cfg.CPU.PredictTicks; i++ {
		s.Step()
		lift += vy
		vy += a.cfg.Player.Gravity
		if lift > 0 {
			lift = 0
		}
		if offset(me.Racket, core.Vec2{Y: lift}).IntersectsCircle(s.Pos, s.Radius) {
			jumped = true
		}
		if me.Racket.IntersectsCircle(s.Pos, s.Radius) {
			stood = true
		}
		if s.Bottom() >= a.cfg.Court.GroundY {
			break
		}
	}
	return jumped && !stood
}

// plan picks the return, the target x and the next reaction delay.
func (a *CPUAgent) plan(w WorldSnapshot) {
	me := w.Me()
	minX, maxX, _ := sideBounds(w.Self, a.cfg)
	facing := float64(me.Facing)

	type shot struct {
		spread float64 // Distance from the opponent at landing
		x      float64 // Shuttle x at contact
		y      float64 // Shuttle y at contact
		ticks  int
		charge bool
	}

	standTop := a.cfg.Court.GroundY - a.cfg.Player.Height + a.cfg.Racket.OffsetY
	center := standTop + a.cfg.Racket.Height/2
	opp := w.Opponent().Pos.X

	var valid []shot
	for _, t := range shotContacts {
		y := center + t*a.cfg.Racket.Height/2
		x, ticks := a.intercept(w, y)
		for _, charge := range []bool{false, true} {
			power := me.PreparePower * math.Pow(a.cfg.Player.ChargeDecay, float64(ticks))
			if charge {
				power = math.Min(a.cfg.Player.MaxPreparePower, me.PreparePower+a.cfg.Player.ChargeRate*float64(ticks))
			}
			landing, ok := a.returnLands(w.Self, me.Facing, core.Vec2{X: x, Y: y}, t, power)
			if ok {
				valid = append(valid, shot{spread: math.Abs(landing - opp), x: x, y: y, ticks: ticks, charge: charge})
			}
		}
	}

	var pick shot
	switch {
	case len(valid) == 0:
		y := center + shotContacts[len(shotContacts)-1]*a.cfg.Racket.Height/2
		x, ticks := a.intercept(w, y)
		pick = shot{x: x, y: y, ticks: ticks, charge: true}
	case a.rng.Float64() < a.skill.Accuracy:
		pick = valid[0]
		for _, s := range valid[1:] {
			if s.spread > pick.spread {
				pick = s
			}
		}
	default:
		pick = valid[a.rng.Intn(len(valid))]
	}

	inacc := a.cfg.CPU.Inaccuracy * (1 - a.skill.Accuracy)
	// Stand so the racket, not the body, meets the shuttle.
	reach := a.cfg.Racket.OffsetX + a.cfg.Racket.Width/2
	target := pick.x - facing*reach + (a.rng.Float64()*2-1)*inacc

	a.targetX = core.ClampF(target, minX, maxX)
	a.reachable = a.targetX == target &&
		math.Abs(a.targetX-me.Pos.X) <= a.speed()*float64(pick.ticks)+a.cfg.Racket.Width/2
	a.contactY = pick.y
	a.charge = pick.charge

	jitter := a.rng.Intn(5) - 2
	a.reaction = core.Clamp(a.skill.Reaction+jitter, a.cfg.CPU.ReactionMin, a.cfg.CPU.ReactionMax)
}

// intercept forward-simulates the shuttle until it falls to height y or
// reaches the ground, returning its x and the ticks taken.
func (a *CPUAgent) intercept(w WorldSnapshot, y float64) (float64, int) {
	s := a.shuttleCopy(w)
	for i := 1; i <= a.cfg.CPU.PredictTicks; i++ {
		s.Step()
		if (s.Vel.Y > 0 && s.Pos.Y >= y) || s.Bottom() >= a.cfg.Court.GroundY {
			return s.Pos.X, i
		}
	}
	return s.Pos.X, a.cfg.CPU.PredictTicks
}

// returnLands simulates a return struck at contact offset t and reports
// its landing x and whether it lands in the opponent's half.
func (a *CPUAgent) returnLands(self core.PlayerID, facing Facing, at core.Vec2, t, prepare float64) (float64, bool) {
	s := Shuttle{Body: Body{Pos: at}, Radius: a.cfg.Shuttle.Radius, cfg: a.cfg.Shuttle}
	angle := a.cfg.Racket.BaseAngle + t*a.cfg.Racket.AngleSpread
	power := a.cfg.Racket.HitPower + prepare*a.cfg.Racket.PowerGain
	s.Launch(launchVelocity(power, angle, facing), self)

	left, right := a.cfg.Court.Margin, a.cfg.Court.Margin+a.cfg.Court.CourtWidth()
	for i := 0; i < a.cfg.CPU.PredictTicks; i++ {
		prevX := s.Pos.X
		s.Step()
		if a.resolver.netContact(&s, prevX) {
			return s.Pos.X, false
		}
		if s.Bottom() >= a.cfg.Court.GroundY {
			break
		}
		if s.Pos.X < left || s.Pos.X > right {
			return s.Pos.X, false
		}
	}
	return s.Pos.X, a.resolver.halfWinner(s.Pos.X) == self
}

func (a *CPUAgent) shuttleCopy(w WorldSnapshot) Shuttle {
	return Shuttle{
		Body:   Body{Pos: w.Shuttle.Pos, Vel: w.Shuttle.Vel},
		Radius: w.Shuttle.Radius,
		InPlay: true,
		cfg:    a.cfg.Shuttle,
	}
}

// stepToward returns the move direction that closes dx, or 0 when the
// racket is already close enough.
func (a *CPUAgent) stepToward(dx float64) int {
	if math.Abs(dx) <= a.tolerance() {
		return 0
	}
	return int(core.Sign(dx))
}

// tolerance is how far from the target the CPU stops. It never exceeds half
// the racket width so a stopped racket still covers the target.
func (a *CPUAgent) tolerance() float64 {
	return math.Min(a.cfg.CPU.TrackDeadzone, a.cfg.Racket.Width/2)
}

func (a *CPUAgent) speed() float64 {
	f := a.skill.SpeedFactor
	if f <= 0 {
		f = 1
	}
	return a.cfg.Player.Speed * f
}

func offset(r core.FRect, d core.Vec2) core.FRect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// sideBounds returns the walkable x-range and start x for a side.
func sideBounds(id core.PlayerID, cfg config.BadmintonConfig) (minX, maxX, startX float64) {
	netX := cfg.Court.NetX()
	if id == core.Player2 {
		return netX + cfg.Player.NetPadding,
			cfg.Court.Margin + cfg.Court.CourtWidth() - cfg.Player.EdgePadding,
			netX + cfg.Player.StartOffset
	}
	return cfg.Court.Margin + cfg.Player.EdgePadding,
		netX - cfg.Player.NetPadding,
		netX - cfg.Player.StartOffset
}
