package badminton

import (
	"testing"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
)

func cpuSession(t *testing.T, mutate func(*config.BadmintonConfig)) (*Session, config.BadmintonConfig) {
	t.Helper()
	cfg := config.DefaultBadmintonConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewSession(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s, cfg
}

func TestCPUServesWhenReady(t *testing.T) {
	s, cfg := cpuSession(t, func(c *config.BadmintonConfig) {
		c.Rules.StartingServer = "cpu"
		c.CPU.ServeChance = 1
	})
	cpu := NewCPUAgent(cfg, config.Skill{SpeedFactor: 1, Reaction: 10, Accuracy: 0.7}, 3)

	res := s.Step(Intent{}, cpu.Decide(s.World(core.Player2)))
	if res.Contact.Kind != EventServe || res.Contact.Player != core.Player2 {
		t.Errorf("Contact = %+v, expected cpu serve", res.Contact)
	}
	if s.shuttle.Vel.X >= 0 {
		t.Errorf("cpu serve vx = %v, expected toward the player half", s.shuttle.Vel.X)
	}
}

func TestCPUNeverServesForOpponent(t *testing.T) {
	s, cfg := cpuSession(t, func(c *config.BadmintonConfig) { c.CPU.ServeChance = 1 })
	cpu := NewCPUAgent(cfg, config.Skill{SpeedFactor: 1, Reaction: 10, Accuracy: 0.7}, 3)

	for i := 0; i < 50; i++ {
		in := cpu.Decide(s.World(core.Player2))
		if in.Swing {
			t.Fatal("cpu should not swing while the player is serving")
		}
		s.Step(Intent{}, in)
	}
}

func TestCPUTracksIncomingShuttle(t *testing.T) {
	s, cfg := cpuSession(t, nil)
	cpu := NewCPUAgent(cfg, config.Skill{SpeedFactor: 1, Reaction: 5, Accuracy: 0.98}, 11)

	// Player serves; the cpu should walk toward the predicted landing.
	s.Step(Intent{Swing: true}, Intent{})
	landing := s.shuttle.PredictLanding(cfg.Court.GroundY, cfg.CPU.PredictTicks)
	start := s.players[1].Pos.X

	for i := 0; i < 30 && s.rally.Phase == PhaseInPlay; i++ {
		s.Step(Intent{}, cpu.Decide(s.World(core.Player2)))
	}

	reach := cfg.Racket.OffsetX + cfg.Racket.Width/2
	minX, maxX, _ := sideBounds(core.Player2, cfg)
	target := core.ClampF(landing+reach, minX, maxX)
	before := abs(target - start)
	after := abs(target - s.players[1].Pos.X)
	if before > cfg.CPU.TrackDeadzone && after >= before {
		t.Errorf("cpu did not approach target %v: %v -> %v", target, start, s.players[1].Pos.X)
	}
}

// steadyCPU removes the random misses from the default policy.
func steadyCPU(cfg *config.BadmintonConfig) {
	cfg.CPU.SwingChance = 1
	cfg.CPU.Inaccuracy = 0
}

func TestCPUReturnsServe(t *testing.T) {
	tests := []struct {
		name string
		walk int // Ticks the server walks right before serving
	}{
		{"from the start", 0},
		{"from midway", 12},
		{"from the net", 40},
	}
	for _, tt := range tests {
		for seed := int64(1); seed <= 5; seed++ {
			s, cfg := cpuSession(t, steadyCPU)
			cpu := NewCPUAgent(cfg, config.Skill{SpeedFactor: 1, Reaction: 10, Accuracy: 0.98}, seed)

			for i := 0; i < tt.walk; i++ {
				s.Step(Intent{Move: 1}, Intent{})
			}
			if res := s.Step(Intent{Swing: true}, Intent{}); res.Contact.Kind != EventServe {
				t.Fatalf("%s: serve tick contact = %v", tt.name, res.Contact.Kind)
			}

			returned := false
			for i := 0; i < 600 && !returned; i++ {
				res := s.Step(Intent{}, cpu.Decide(s.World(core.Player2)))
				if res.Point != nil {
					t.Errorf("%s seed %d: rally ended by %v at x=%.1f before the cpu returned", tt.name, seed, res.Point.Cause, res.Point.X)
					break
				}
				returned = res.Contact.Kind == EventRacket && res.Contact.Player == core.Player2
			}
			if !returned && !t.Failed() {
				t.Errorf("%s seed %d: cpu never returned the serve", tt.name, seed)
			}
		}
	}
}

func TestCPUBeatsSwingOnlyPlayer(t *testing.T) {
	s, cfg := cpuSession(t, nil)
	skill := config.NewDifficultyManager(cfg.Difficulty).Skill(cfg.CPU, 0)
	cpu := NewCPUAgent(cfg, skill, 5)
	s.SetSpeedFactor(core.Player2, skill.SpeedFactor)

	points := 0
	for i := 0; i < 100000 && points < 10; i++ {
		res := s.Step(Intent{Swing: true}, cpu.Decide(s.World(core.Player2)))
		if res.Err != nil {
			t.Fatalf("Step() error = %v", res.Err)
		}
		if res.Point != nil {
			points++
		}
	}
	if points < 10 {
		t.Fatalf("only %d points finished", points)
	}
	if got := s.Score().Of(core.Player2); got < 8 {
		t.Errorf("cpu won %d of 10 points against a player who only swings, expected at least 8", got)
	}
}

func TestCPUDoesNotJumpOverReachableShuttle(t *testing.T) {
	s, cfg := cpuSession(t, nil)
	racket := s.players[1].RacketRect()
	s.rally.Phase = PhaseInPlay
	s.shuttle.Pos = core.Vec2{X: racket.Center().X, Y: 300}
	s.shuttle.Launch(core.Vec2{Y: 2}, core.Player1)

	cpu := NewCPUAgent(cfg, config.Skill{SpeedFactor: 1, Reaction: 10, Accuracy: 0.98}, 1)
	if cpu.jumpReaches(s.World(core.Player2)) {
		t.Error("jumpReaches() = true for a shuttle falling onto the standing racket")
	}

	// Rising over the standing racket (x 652..662, y 510..554), within jump reach.
	s.shuttle.Pos = core.Vec2{X: 600, Y: 420}
	s.shuttle.Vel = core.Vec2{X: 6, Y: -4}
	if !cpu.jumpReaches(s.World(core.Player2)) {
		t.Error("jumpReaches() = false for a shuttle only a jump can meet")
	}
}

func TestCPUShotSelection(t *testing.T) {
	s, cfg := cpuSession(t, nil)
	s.rally.Phase = PhaseInPlay
	s.shuttle.Launch(launchVelocity(cfg.Shuttle.ServePower, cfg.Shuttle.ServeAngle, FacingRight), core.Player1)
	w := s.World(core.Player2)

	type shot struct {
		contactY float64
		charge   bool
	}
	picks := func(accuracy float64) map[shot]bool {
		seen := map[shot]bool{}
		for seed := int64(1); seed <= 20; seed++ {
			cpu := NewCPUAgent(cfg, config.Skill{SpeedFactor: 1, Reaction: 10, Accuracy: accuracy}, seed)
			cpu.plan(w)
			seen[shot{cpu.contactY, cpu.charge}] = true
		}
		return seen
	}

	if got := len(picks(0)); got < 2 {
		t.Errorf("inaccurate CPU chose %d distinct shots over 20 seeds, expected variety", got)
	}
	if got := len(picks(1)); got != 1 {
		t.Errorf("accurate CPU chose %d distinct shots over 20 seeds, expected 1", got)
	}
}

func TestCPUDecisionsDeterministic(t *testing.T) {
	cfg := config.DefaultBadmintonConfig()
	skill := config.Skill{SpeedFactor: 1.1, Reaction: 8, Accuracy: 0.75}

	record := func() []Intent {
		s, err := NewSession(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		left := NewCPUAgent(cfg, skill, 21)
		right := NewCPUAgent(cfg, skill, 22)
		var out []Intent
		for i := 0; i < 1500 && !s.Over(); i++ {
			l, r := left.Decide(s.World(core.Player1)), right.Decide(s.World(core.Player2))
			out = append(out, l, r)
			s.Step(l, r)
		}
		return out
	}

	a, b := record(), record()
	if len(a) != len(b) {
		t.Fatalf("decision counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("decision %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestIntentFromInput(t *testing.T) {
	tests := []struct {
		name     string
		actions  []core.Action
		expected Intent
	}{
		{"idle", nil, Intent{}},
		{"left", []core.Action{core.ActionLeft}, Intent{Move: -1}},
		{"right jump", []core.Action{core.ActionRight, core.ActionJump}, Intent{Move: 1, Jump: true}},
		{"both directions cancel", []core.Action{core.ActionLeft, core.ActionRight}, Intent{}},
		{"swing charge", []core.Action{core.ActionSwing, core.ActionCharge}, Intent{Swing: true, Charge: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := core.NewInputFrame()
			for _, a := range tt.actions {
				in.Set(a)
			}
			h := NewHumanAgent()
			h.SetInput(in)
			if got := h.Decide(WorldSnapshot{}); got != tt.expected {
				t.Errorf("Decide() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
