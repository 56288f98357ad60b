package badminton

import (
	"testing"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
)

// inPlay puts a fresh session into a rally with the shuttle at pos.
func inPlay(t *testing.T, hitter core.PlayerID, pos, vel core.Vec2) *Session {
	t.Helper()
	s, err := NewSession(config.DefaultBadmintonConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	s.rally.Phase = PhaseInPlay
	s.shuttle.Pos = pos
	s.shuttle.Launch(vel, hitter)
	return s
}

func TestResolveTerminalEvents(t *testing.T) {
	cfg := config.DefaultBadmintonConfig()
	netX, netTop, ground := cfg.Court.NetX(), cfg.Court.NetTop(), cfg.Court.GroundY

	tests := []struct {
		name   string
		hitter core.PlayerID
		pos    core.Vec2
		vel    core.Vec2
		kind   EventKind
		winner core.PlayerID
	}{
		{"lands on cpu half", core.Player1, core.Vec2{X: 800, Y: ground - 12}, core.Vec2{Y: 4}, EventGround, core.Player1},
		{"lands on player half", core.Player2, core.Vec2{X: 300, Y: ground - 12}, core.Vec2{Y: 4}, EventGround, core.Player2},
		{"own half miss", core.Player1, core.Vec2{X: 300, Y: ground - 12}, core.Vec2{Y: 4}, EventGround, core.Player2},
		{"player into net", core.Player1, core.Vec2{X: netX - 6, Y: netTop + 20}, core.Vec2{X: 2}, EventNet, core.Player2},
		{"cpu into net", core.Player2, core.Vec2{X: netX + 6, Y: netTop + 20}, core.Vec2{X: -2}, EventNet, core.Player1},
		{"fast shot tunnels net", core.Player1, core.Vec2{X: netX - 30, Y: netTop + 20}, core.Vec2{X: 60}, EventNet, core.Player2},
		{"out past left baseline", core.Player2, core.Vec2{X: cfg.Court.Margin + 2, Y: 300}, core.Vec2{X: -10}, EventOut, core.Player2},
		{"out past right baseline", core.Player1, core.Vec2{X: 1018, Y: 300}, core.Vec2{X: 10}, EventOut, core.Player1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := inPlay(t, tt.hitter, tt.pos, tt.vel)
			res := s.Step(Intent{}, Intent{})
			if res.Err != nil {
				t.Fatalf("Step() error = %v", res.Err)
			}
			if res.Contact.Kind != tt.kind {
				t.Fatalf("Contact = %v, expected %v", res.Contact.Kind, tt.kind)
			}
			if res.Point == nil || res.Point.Winner != tt.winner {
				t.Fatalf("Point = %+v, expected winner %v", res.Point, tt.winner)
			}
		})
	}
}

func TestResolveOutProjectsToBoundary(t *testing.T) {
	s := inPlay(t, core.Player2, core.Vec2{X: 82, Y: 300}, core.Vec2{X: -10})
	res := s.Step(Intent{}, Intent{})
	if res.Contact.Kind != EventOut || res.Contact.X != 80 {
		t.Errorf("Contact = %+v, expected out at x=80", res.Contact)
	}
}

func TestResolveHighShuttleClearsNet(t *testing.T) {
	cfg := config.DefaultBadmintonConfig()
	s := inPlay(t, core.Player1, core.Vec2{X: cfg.Court.NetX() - 5, Y: 200}, core.Vec2{X: 6})
	res := s.Step(Intent{}, Intent{})
	if res.Contact.Kind != EventNone || res.Point != nil {
		t.Errorf("Contact = %+v, expected the shuttle to sail over the net", res.Contact)
	}
}

func TestResolveRacketBeatsGround(t *testing.T) {
	cfg := config.DefaultBadmintonConfig()
	// Inside the cpu racket (x 652..662, y 510..554) with the bottom
	// reaching the ground after this tick's step.
	s := inPlay(t, core.Player1, core.Vec2{X: 657, Y: 546}, core.Vec2{Y: 5})

	res := s.Step(Intent{}, Intent{Swing: true})
	if res.Contact.Kind != EventRacket || res.Contact.Player != core.Player2 {
		t.Fatalf("Contact = %+v, expected cpu racket contact", res.Contact)
	}
	if res.Point != nil {
		t.Error("racket contact must pre-empt the ground event")
	}
	if s.shuttle.LastHitter != core.Player2 || s.shuttle.Vel.X >= 0 || s.shuttle.Vel.Y >= 0 {
		t.Errorf("shuttle after return: hitter %v vel %+v, expected cpu and up-left", s.shuttle.LastHitter, s.shuttle.Vel)
	}
	if s.shuttle.Bottom() < cfg.Court.GroundY-20 {
		t.Error("contact should not move the shuttle")
	}
}

func TestResolveNoDoubleHit(t *testing.T) {
	s := inPlay(t, core.Player2, core.Vec2{X: 657, Y: 530}, core.Vec2{})
	res := s.Step(Intent{}, Intent{Swing: true})
	if res.Contact.Kind == EventRacket {
		t.Error("last hitter must not hit the shuttle again")
	}
}

func TestHitVelocityFromImpactPoint(t *testing.T) {
	cfg := config.DefaultBadmintonConfig()
	r := NewResolver(cfg)
	p := NewPlayer(core.Player1, cfg, true)
	rect := p.RacketRect()

	low := r.hitVelocity(p, rect, core.Vec2{X: rect.X, Y: rect.Bottom()})
	mid := r.hitVelocity(p, rect, rect.Center())
	high := r.hitVelocity(p, rect, core.Vec2{X: rect.X, Y: rect.Y})

	if !(low.Y < mid.Y && mid.Y < high.Y) {
		t.Errorf("vy low/mid/high = %v/%v/%v, expected lower contact to loft more", low.Y, mid.Y, high.Y)
	}
	for _, v := range []core.Vec2{low, mid, high} {
		if v.X <= 0 {
			t.Errorf("vx = %v, expected right-facing return to travel right", v.X)
		}
	}

	p.PreparePower = cfg.Player.MaxPreparePower
	charged := r.hitVelocity(p, rect, rect.Center())
	if charged.Len() <= mid.Len() {
		t.Errorf("charged speed %v should exceed uncharged %v", charged.Len(), mid.Len())
	}
}
