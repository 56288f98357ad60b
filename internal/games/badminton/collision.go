package badminton

import (
	"math"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
)

// EventKind classifies the outcome of contact resolution for one tick.
type EventKind int

const (
	EventNone   EventKind = iota
	EventServe            // Server's swing put the shuttle in play
	EventRacket           // A rally return
	EventNet              // Terminal: shuttle hit the net
	EventGround           // Terminal: shuttle landed
	EventOut              // Terminal: shuttle left the court horizontally
)

// String returns the event name used in logs and metrics.
func (k EventKind) String() string {
	switch k {
	case EventServe:
		return "serve"
	case EventRacket:
		return "racket"
	case EventNet:
		return "net"
	case EventGround:
		return "ground"
	case EventOut:
		return "out"
	default:
		return "none"
	}
}

// Terminal reports whether the event ends the rally.
func (k EventKind) Terminal() bool {
	return k == EventNet || k == EventGround || k == EventOut
}

// Event is the single contact outcome of a tick.
type Event struct {
	Kind   EventKind
	Player core.PlayerID // Hitter for serve/racket events
	Winner core.PlayerID // Point winner for terminal events
	X      float64       // Contact x for terminal events
}

// Resolver detects contacts in fixed priority order: racket, net,
// ground, out-of-bounds. The first match wins.
type Resolver struct {
	court  config.CourtConfig
	racket config.RacketConfig
	serve  config.ShuttleConfig
}

// NewResolver creates a resolver for the given court and equipment.
func NewResolver(cfg config.BadmintonConfig) *Resolver {
	return &Resolver{court: cfg.Court, racket: cfg.Racket, serve: cfg.Shuttle}
}

// Resolve evaluates contacts after integration. prevX is the shuttle's
// x before this tick's flight step. Racket contacts update the shuttle
// in place; terminal events leave it untouched for the rally to handle.
func (r *Resolver) Resolve(players [2]*Player, sh *Shuttle, prevX float64, phase Phase, server core.PlayerID) Event {
	if phase == PhaseAwaitingServe {
		return r.resolveServe(players, sh, server)
	}
	if phase != PhaseInPlay || !sh.InPlay {
		return Event{}
	}

	if ev, ok := r.racketContact(players, sh); ok {
		return ev
	}
	if r.netContact(sh, prevX) {
		return Event{Kind: EventNet, Winner: r.netWinner(sh, prevX), X: sh.Pos.X}
	}
	if sh.Bottom() >= r.court.GroundY {
		return Event{Kind: EventGround, Winner: r.halfWinner(sh.Pos.X), X: sh.Pos.X}
	}
	left, right := r.court.Margin, r.court.Margin+r.court.CourtWidth()
	if sh.Pos.X < left || sh.Pos.X > right {
		x := core.ClampF(sh.Pos.X, left, right)
		return Event{Kind: EventOut, Winner: r.halfWinner(x), X: x}
	}
	return Event{}
}

// resolveServe treats any swing by the server as contact with the pinned shuttle.
func (r *Resolver) resolveServe(players [2]*Player, sh *Shuttle, server core.PlayerID) Event {
	if sh.InPlay || server.Index() < 0 {
		return Event{}
	}
	p := players[server.Index()]
	if !p.Swinging {
		return Event{}
	}
	power := r.serve.ServePower + p.PreparePower*r.racket.PowerGain
	sh.Launch(launchVelocity(power, r.serve.ServeAngle, p.Facing), p.ID)
	return Event{Kind: EventServe, Player: p.ID}
}

func (r *Resolver) racketContact(players [2]*Player, sh *Shuttle) (Event, bool) {
	for _, p := range players {
		if !p.Swinging || sh.LastHitter == p.ID {
			continue
		}
		rect := p.RacketRect()
		if !rect.IntersectsCircle(sh.Pos, sh.Radius) {
			continue
		}
		sh.Launch(r.hitVelocity(p, rect, sh.Pos), p.ID)
		return Event{Kind: EventRacket, Player: p.ID}, true
	}
	return Event{}, false
}

// hitVelocity derives the return from where the shuttle met the racket.
// Contact below the racket center lofts the shot; contact above flattens it.
func (r *Resolver) hitVelocity(p *Player, rect core.FRect, at core.Vec2) core.Vec2 {
	t := 0.0
	if rect.H > 0 {
		t = core.ClampF((at.Y-rect.Center().Y)/(rect.H/2), -1, 1)
	}
	angle := r.racket.BaseAngle + t*r.racket.AngleSpread
	power := r.racket.HitPower + p.PreparePower*r.racket.PowerGain
	return launchVelocity(power, angle, p.Facing)
}

// netContact reports whether the shuttle is in, or crossed, the net column
// below its top.
func (r *Resolver) netContact(sh *Shuttle, prevX float64) bool {
	if sh.Bottom() < r.court.NetTop() {
		return false
	}
	netX := r.court.NetX()
	if math.Abs(sh.Pos.X-netX) <= r.court.NetWidth/2+sh.Radius {
		return true
	}
	return (prevX < netX) != (sh.Pos.X < netX)
}

// netWinner awards the point against whoever sent the shuttle into the net.
// Without a known hitter, the side the shuttle came from loses.
func (r *Resolver) netWinner(sh *Shuttle, prevX float64) core.PlayerID {
	if sh.LastHitter != core.NoPlayer {
		return sh.LastHitter.Opponent()
	}
	return r.halfWinner(prevX)
}

// halfWinner applies the half-plane rule: the owner of the half that
// contains x loses the point.
func (r *Resolver) halfWinner(x float64) core.PlayerID {
	if x < r.court.NetX() {
		return core.Player2
	}
	return core.Player1
}
