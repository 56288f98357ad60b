package badminton

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
	"github.com/vovakirdan/tui-badminton/internal/rank"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(config.DefaultBadmintonConfig(), nil)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

// playPoint serves and then drops the shuttle on the loser's half.
func playPoint(t *testing.T, s *Session, winner core.PlayerID) TickResult {
	t.Helper()
	serve := Intent{Swing: true}
	var res TickResult
	if s.rally.Server == core.Player1 {
		res = s.Step(serve, Intent{})
	} else {
		res = s.Step(Intent{}, serve)
	}
	if res.Contact.Kind != EventServe {
		t.Fatalf("serve tick contact = %v, expected serve", res.Contact.Kind)
	}

	x := 300.0
	if winner == core.Player1 {
		x = 800
	}
	s.shuttle.Pos = core.Vec2{X: x, Y: s.cfg.Court.GroundY - s.shuttle.Radius - 1}
	s.shuttle.Vel = core.Vec2{Y: 4}

	res = s.Step(Intent{}, Intent{})
	if res.Point == nil {
		t.Fatalf("expected a point, got contact %v", res.Contact.Kind)
	}
	return res
}

func TestSessionInitialState(t *testing.T) {
	s := newTestSession(t)
	snap := s.Snapshot()

	if snap.Phase != PhaseAwaitingServe || snap.Server != core.Player1 {
		t.Errorf("phase %v server %v, expected awaiting_serve by player", snap.Phase, snap.Server)
	}
	if snap.Shuttle.InPlay || snap.Shuttle.LastHitter != core.NoPlayer {
		t.Error("shuttle should start pinned with no hitter")
	}
	if snap.Score.Points != [2]int{} {
		t.Errorf("score = %v, expected 0-0", snap.Score)
	}
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultBadmintonConfig()
	cfg.Shuttle.DragCoeff = 0
	if _, err := NewSession(cfg, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("NewSession() error = %v, expected ErrInvalidConfig", err)
	}
}

func TestServeScenario(t *testing.T) {
	s := newTestSession(t)

	res := s.Step(Intent{Swing: true}, Intent{})
	if res.Contact.Kind != EventServe || res.Contact.Player != core.Player1 {
		t.Fatalf("Contact = %+v, expected serve by player", res.Contact)
	}
	if !s.shuttle.InPlay || s.shuttle.LastHitter != core.Player1 {
		t.Error("serve should put the shuttle in play with the server as last hitter")
	}
	if s.shuttle.Vel.X <= 0 || s.shuttle.Vel.Len() <= 0 {
		t.Errorf("serve velocity = %+v, expected toward the cpu half", s.shuttle.Vel)
	}
	if s.rally.Phase != PhaseInPlay {
		t.Errorf("phase = %v, expected in_play", s.rally.Phase)
	}
}

func TestNonServerSwingDoesNotServe(t *testing.T) {
	s := newTestSession(t)
	res := s.Step(Intent{}, Intent{Swing: true})
	if res.Contact.Kind != EventNone || s.rally.Phase != PhaseAwaitingServe {
		t.Errorf("receiver swing changed the rally: %+v phase %v", res.Contact, s.rally.Phase)
	}
}

func TestPinFollowsServer(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < 10; i++ {
		s.Step(Intent{Move: -1}, Intent{})
	}
	want := s.shuttle.ServePosition(s.players[0])
	if s.shuttle.Pos != want {
		t.Errorf("pinned shuttle = %+v, expected %+v", s.shuttle.Pos, want)
	}
}

func TestPointResetsRally(t *testing.T) {
	s := newTestSession(t)
	res := playPoint(t, s, core.Player2)

	if res.Point.Winner != core.Player2 || res.Point.Cause != EventGround {
		t.Errorf("Point = %+v, expected cpu by ground", res.Point)
	}
	if s.rally.Phase != PhaseAwaitingServe || s.rally.Server != core.Player2 {
		t.Errorf("phase %v server %v, expected awaiting_serve by cpu", s.rally.Phase, s.rally.Server)
	}
	if s.shuttle.InPlay || s.shuttle.LastHitter != core.NoPlayer {
		t.Error("shuttle should be out of play with the hitter cleared")
	}

	server := s.players[1]
	if server.Pos != server.Start() {
		t.Errorf("server at %+v, expected start stance %+v", server.Pos, server.Start())
	}
	if want := s.shuttle.ServePosition(server); s.shuttle.Pos != want {
		t.Errorf("shuttle at %+v, expected serve-ready %+v", s.shuttle.Pos, want)
	}
	for _, p := range s.players {
		if p.Swinging || p.SwingTimer != 0 || p.SwingCooldown != 0 {
			t.Errorf("%v swing state not reset", p.ID)
		}
	}
}

func TestScoreMonotonic(t *testing.T) {
	s := newTestSession(t)
	winners := []core.PlayerID{core.Player1, core.Player2, core.Player2, core.Player1, core.Player1}

	prev := s.Score()
	for _, w := range winners {
		playPoint(t, s, w)
		cur := s.Score()
		if cur.Of(w) != prev.Of(w)+1 {
			t.Errorf("winner %v: %d -> %d, expected +1", w, prev.Of(w), cur.Of(w))
		}
		if cur.Of(w.Opponent()) != prev.Of(w.Opponent()) {
			t.Errorf("loser %v score changed", w.Opponent())
		}
		prev = cur
	}
}

func TestMatchEndAppliesRank(t *testing.T) {
	s := newTestSession(t)

	var ended *MatchEnded
	for i := 0; i < 21; i++ {
		res := playPoint(t, s, core.Player1)
		if res.Match != nil {
			ended = res.Match
			if i != 20 {
				t.Fatalf("match ended after %d points, expected 21", i+1)
			}
		}
	}
	if ended == nil {
		t.Fatal("expected the match to end at 21-0")
	}
	if ended.Winner != core.Player1 || ended.Score.Points != [2]int{21, 0} {
		t.Errorf("MatchEnded = %+v", ended)
	}
	// 3 for the win, +2 capped margin bonus.
	if ended.Rank.Awarded != 5 || s.Rank().ProgressPoints != 5 {
		t.Errorf("awarded %d, progress %d, expected 5 and 5", ended.Rank.Awarded, s.Rank().ProgressPoints)
	}

	res := s.Step(Intent{Swing: true}, Intent{})
	if res.Tick != s.Tick() || res.Contact.Kind != EventNone || !s.Over() {
		t.Error("a finished match must not advance")
	}

	s.NewMatch()
	if s.Over() || s.Score().Points != [2]int{} || s.Rank().ProgressPoints != 5 {
		t.Error("NewMatch should reset the score and keep the rank")
	}
}

func TestMatchLossKeepsRank(t *testing.T) {
	tracker := rank.NewTracker()
	if err := tracker.Load(rank.State{RankIndex: 1, TierIndex: 2, ProgressPoints: 3}); err != nil {
		t.Fatal(err)
	}
	s, err := NewSession(config.DefaultBadmintonConfig(), tracker)
	if err != nil {
		t.Fatal(err)
	}

	var ended *MatchEnded
	for s.Score().Of(core.Player2) < 21 {
		if res := playPoint(t, s, core.Player2); res.Match != nil {
			ended = res.Match
		}
	}
	if ended == nil || ended.Rank.Awarded != 0 || ended.Rank.To != ended.Rank.From {
		t.Errorf("loss changed rank: %+v", ended)
	}
}

func TestSwingInvariantUnderRandomIntents(t *testing.T) {
	s := newTestSession(t)
	rng := rand.New(rand.NewSource(99))
	random := func() Intent {
		return Intent{
			Move:   rng.Intn(3) - 1,
			Jump:   rng.Intn(10) == 0,
			Swing:  rng.Intn(4) == 0,
			Charge: rng.Intn(2) == 0,
		}
	}

	for i := 0; i < 5000 && !s.Over(); i++ {
		res := s.Step(random(), random())
		if res.Err != nil {
			t.Fatalf("tick %d: %v", res.Tick, res.Err)
		}
		for _, p := range s.Snapshot().Players {
			if p.Swinging != (p.SwingTimer > 0) {
				t.Fatalf("tick %d: %v swinging %v with timer %d", res.Tick, p.ID, p.Swinging, p.SwingTimer)
			}
		}
		if res.Point != nil {
			if s.shuttle.InPlay || s.shuttle.Pos != s.shuttle.ServePosition(s.server()) {
				t.Fatalf("tick %d: shuttle not at serve-ready after point", res.Tick)
			}
		}
	}
}

func TestDeterminism(t *testing.T) {
	run := func() Snapshot {
		cfg := config.DefaultBadmintonConfig()
		s, err := NewSession(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		skill := config.Skill{SpeedFactor: 1, Reaction: 10, Accuracy: 0.8}
		left := NewCPUAgent(cfg, skill, 1)
		right := NewCPUAgent(cfg, skill, 2)
		for i := 0; i < 4000 && !s.Over(); i++ {
			s.Step(left.Decide(s.World(core.Player1)), right.Decide(s.World(core.Player2)))
		}
		return s.Snapshot()
	}

	a, b := run(), run()
	if a.Hash() != b.Hash() {
		t.Errorf("Determinism failed: hashes differ. Run1=%d, Run2=%d", a.Hash(), b.Hash())
	}
	if a.Score != b.Score || a.Tick != b.Tick {
		t.Errorf("Determinism failed: %s@%d vs %s@%d", a.Score, a.Tick, b.Score, b.Tick)
	}
}

func TestFaultInPlayWithoutServer(t *testing.T) {
	s := newTestSession(t)
	s.rally.Phase = PhaseInPlay
	s.rally.Server = core.NoPlayer

	res := s.Step(Intent{}, Intent{})
	if !errors.Is(res.Err, ErrInvariant) {
		t.Fatalf("Err = %v, expected ErrInvariant", res.Err)
	}
	var ie *InvariantError
	if !errors.As(res.Err, &ie) || ie.Tick != 1 {
		t.Errorf("Err = %#v, expected *InvariantError at tick 1", res.Err)
	}

	// Latched: every later step reports the same fault without advancing.
	again := s.Step(Intent{Move: 1}, Intent{})
	if again.Err != res.Err || again.Tick != res.Tick {
		t.Errorf("latched fault not repeated: %+v", again)
	}
	if s.Err() != res.Err {
		t.Error("Err() should return the latched fault")
	}
}

func TestFaultScoringFromAwaitingServe(t *testing.T) {
	s := newTestSession(t)
	s.tick = 1
	_, _, err := s.finishPoint(Event{Kind: EventGround, Winner: core.Player1})
	if !errors.Is(err, ErrInvariant) {
		t.Errorf("finishPoint() = %v, expected ErrInvariant", err)
	}
	if s.Score().Points != [2]int{} {
		t.Error("a rejected point must not change the score")
	}
}

func TestFaultSecondTerminalEvent(t *testing.T) {
	s := newTestSession(t)
	s.Step(Intent{Swing: true}, Intent{})

	ev := Event{Kind: EventGround, Winner: core.Player1}
	if _, _, err := s.finishPoint(ev); err != nil {
		t.Fatalf("first finishPoint() = %v", err)
	}
	s.rally.Phase = PhaseInPlay
	if _, _, err := s.finishPoint(ev); !errors.Is(err, ErrInvariant) {
		t.Errorf("second finishPoint() in one tick = %v, expected ErrInvariant", err)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestSession(t)
	snap := s.Snapshot()
	snap.Players[0].Pos.X = -1
	snap.Score.Points[0] = 99

	if s.players[0].Pos.X == -1 || s.Score().Of(core.Player1) == 99 {
		t.Error("modifying a snapshot must not affect the session")
	}
}
