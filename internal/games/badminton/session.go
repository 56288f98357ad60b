package badminton

import (
	"fmt"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
	"github.com/vovakirdan/tui-badminton/internal/rank"
)

// PointScored reports a finished rally.
type PointScored struct {
	Winner core.PlayerID
	Cause  EventKind
	X      float64 // Where the rally ended
	Hits   int     // Racket contacts, serve included
	Ticks  int     // Ticks the shuttle was in play
	Score  MatchScore
}

// MatchEnded reports a finished match and the resulting rank change.
type MatchEnded struct {
	Winner core.PlayerID
	Score  MatchScore
	Rank   rank.Change
}

// TickResult is returned by Session.Step.
type TickResult struct {
	Tick    uint64
	Contact Event
	Point   *PointScored
	Match   *MatchEnded
	Err     error
}

// Session owns one match: both players, the shuttle, the rally, the score
// and the human's rank tracker. It is not safe for concurrent use.
type Session struct {
	cfg      config.BadmintonConfig
	players  [2]*Player
	shuttle  *Shuttle
	resolver *Resolver
	rally    Rally
	score    MatchScore
	tracker  *rank.Tracker
	award    rank.Award

	tick      uint64
	pointTick uint64
	over      bool
	winner    core.PlayerID
	fault     error
}

// NewSession creates a session at the start of a match. The tracker carries
// the human's rank across matches; nil starts a fresh one.
func NewSession(cfg config.BadmintonConfig, tracker *rank.Tracker) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("badminton: new session: %w", err)
	}
	if tracker == nil {
		tracker = rank.NewTracker()
	}
	s := &Session{
		cfg:      cfg,
		shuttle:  NewShuttle(cfg.Shuttle),
		resolver: NewResolver(cfg),
		tracker:  tracker,
		award: rank.Award{
			Win:            cfg.Rank.WinAward,
			MarginStep:     cfg.Rank.MarginStep,
			MaxMarginBonus: cfg.Rank.MaxMarginBonus,
		},
	}
	s.players[0] = NewPlayer(core.Player1, cfg, true)
	s.players[1] = NewPlayer(core.Player2, cfg, false)
	s.NewMatch()
	return s, nil
}

// NewMatch resets score, rally and positions. The rank is kept.
func (s *Session) NewMatch() {
	server, ok := core.ParsePlayerID(s.cfg.Rules.StartingServer)
	if !ok || server == core.NoPlayer {
		server = core.Player1
	}
	s.tick = 0
	s.pointTick = 0
	s.over = false
	s.winner = core.NoPlayer
	s.fault = nil
	s.score = MatchScore{}
	s.rally = NewRally(server)
	s.resetPositions()
}

// Step advances the simulation one tick: intents, integration, contact
// resolution, then rally and match bookkeeping. After the match has ended
// or a fault was latched, Step does not advance.
func (s *Session) Step(human, computer Intent) TickResult {
	if s.fault != nil {
		return TickResult{Tick: s.tick, Err: s.fault}
	}
	if s.over {
		return TickResult{Tick: s.tick}
	}

	s.tick++
	res := TickResult{Tick: s.tick}

	applyIntent(s.players[0], human)
	applyIntent(s.players[1], computer)
	for _, p := range s.players {
		p.Move()
	}

	prevX := s.shuttle.Pos.X
	if s.rally.Phase == PhaseAwaitingServe {
		s.shuttle.Pin(s.server())
	} else {
		s.shuttle.Step()
		s.rally.Ticks++
	}

	if err := s.rally.check(s.tick); err != nil {
		return s.failed(res, err)
	}

	ev := s.resolver.Resolve(s.players, s.shuttle, prevX, s.rally.Phase, s.rally.Server)
	res.Contact = ev
	switch {
	case ev.Kind == EventServe:
		if err := s.rally.Serve(s.tick); err != nil {
			return s.failed(res, err)
		}
	case ev.Kind == EventRacket:
		s.rally.Return()
	case ev.Kind.Terminal():
		point, match, err := s.finishPoint(ev)
		if err != nil {
			return s.failed(res, err)
		}
		res.Point, res.Match = point, match
	}

	for _, p := range s.players {
		p.Tick()
		if !p.timersConsistent() {
			return s.failed(res, newInvariantError(s.tick, "%s swing timers inconsistent", p.ID))
		}
	}
	return res
}

func applyIntent(p *Player, in Intent) {
	p.SetHorizontalIntent(in.Move)
	if in.Jump {
		p.RequestJump()
	}
	if in.Swing {
		p.RequestSwing()
	}
	p.Charge(in.Charge)
}

// finishPoint moves the rally through PointScored into the next
// AwaitingServe and settles the match if it is over.
func (s *Session) finishPoint(ev Event) (*PointScored, *MatchEnded, error) {
	if s.pointTick == s.tick {
		return nil, nil, newInvariantError(s.tick, "second terminal event in one tick")
	}
	if err := s.rally.Score(s.tick, ev.Winner); err != nil {
		return nil, nil, err
	}
	s.pointTick = s.tick
	s.score.Add(ev.Winner)

	point := &PointScored{
		Winner: ev.Winner,
		Cause:  ev.Kind,
		X:      ev.X,
		Hits:   s.rally.Hits,
		Ticks:  s.rally.Ticks,
		Score:  s.score,
	}

	next, err := s.rally.Next(s.tick)
	if err != nil {
		return nil, nil, err
	}
	s.rally = next
	s.resetPositions()

	w := s.score.Winner(s.cfg.Rules)
	if w == core.NoPlayer {
		return point, nil, nil
	}
	s.over = true
	s.winner = w
	change := s.tracker.Apply(s.award.For(w == core.Player1, s.score.Margin()))
	return point, &MatchEnded{Winner: w, Score: s.score, Rank: change}, nil
}

// resetPositions puts both players in their start stance and pins the
// shuttle to the current server.
func (s *Session) resetPositions() {
	for _, p := range s.players {
		p.ResetStance()
	}
	s.shuttle.Pin(s.server())
}

func (s *Session) server() *Player {
	if i := s.rally.Server.Index(); i >= 0 {
		return s.players[i]
	}
	return s.players[0]
}

func (s *Session) failed(res TickResult, err error) TickResult {
	if abortOnFault {
		panic(err)
	}
	s.fault = err
	res.Err = err
	return res
}

// Err returns the latched fault, if any.
func (s *Session) Err() error {
	return s.fault
}

// Over reports whether the match has ended.
func (s *Session) Over() bool {
	return s.over
}

// Tick returns the number of ticks simulated in this match.
func (s *Session) Tick() uint64 {
	return s.tick
}

// Score returns the current match score.
func (s *Session) Score() MatchScore {
	return s.score
}

// Rank returns the human's rank state.
func (s *Session) Rank() rank.State {
	return s.tracker.Serialize()
}

// Config returns the configuration the session was built with.
func (s *Session) Config() config.BadmintonConfig {
	return s.cfg
}

// SetSpeedFactor scales one player's move speed.
func (s *Session) SetSpeedFactor(id core.PlayerID, factor float64) {
	if i := id.Index(); i >= 0 && factor > 0 {
		s.players[i].SpeedFactor = factor
	}
}

// SetHuman marks whether a side is human-controlled. It only affects
// snapshots and rendering.
func (s *Session) SetHuman(id core.PlayerID, human bool) {
	if i := id.Index(); i >= 0 {
		s.players[i].IsHuman = human
	}
}

// Snapshot returns a read-only copy of the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Tick:      s.tick,
		Phase:     s.rally.Phase,
		Server:    s.rally.Server,
		Players:   [2]PlayerView{viewPlayer(s.players[0]), viewPlayer(s.players[1])},
		Shuttle:   viewShuttle(s.shuttle),
		Score:     s.score,
		RallyHits: s.rally.Hits,
		MatchOver: s.over,
		Winner:    s.winner,
		Rank:      s.tracker.Serialize(),
	}
}

// World returns the snapshot as seen by one side, for agents.
func (s *Session) World(self core.PlayerID) WorldSnapshot {
	return WorldSnapshot{Snapshot: s.Snapshot(), Self: self}
}
