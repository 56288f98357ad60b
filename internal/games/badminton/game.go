package badminton

import (
	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
	"github.com/vovakirdan/tui-badminton/internal/rank"
	"github.com/vovakirdan/tui-badminton/internal/registry"
)

// Banner durations in ticks.
const (
	pointBannerTicks = 75
)

// Observer receives every tick's snapshot and result.
// Implementations must not block.
type Observer interface {
	Observe(snap Snapshot, res TickResult)
}

// match is the platform adapter shared by the playable game and the demo.
type match struct {
	id    string
	title string
	demo  bool

	cfg        config.BadmintonConfig
	runtime    core.RuntimeConfig
	tracker    *rank.Tracker
	difficulty *config.DifficultyManager
	session    *Session
	human      *HumanAgent
	agents     [2]Agent // agents[0] is only used in demo mode
	observer   Observer

	paused     bool
	err        error
	lastPoint  *PointScored
	pointTimer int
	lastMatch  *MatchEnded
}

func newMatch(id, title string, demo bool) match {
	cfg := config.DefaultBadmintonConfig()
	return match{
		id:         id,
		title:      title,
		demo:       demo,
		cfg:        cfg,
		tracker:    rank.NewTracker(),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		human:      NewHumanAgent(),
	}
}

// Game is human vs CPU. The human's rank persists across matches.
type Game struct {
	match
}

// New creates a new badminton game with the default configuration.
func New() *Game {
	return &Game{match: newMatch("badminton", "Badminton", false)}
}

// Rank returns the human's rank.
func (g *Game) Rank() rank.State {
	return g.tracker.Serialize()
}

// LoadRank restores a stored rank. Takes effect from the next Reset.
func (g *Game) LoadRank(s rank.State) error {
	return g.tracker.Load(s)
}

// Demo is CPU vs CPU. It keeps a throwaway rank.
type Demo struct {
	match
}

// NewDemo creates a self-playing demo.
func NewDemo() *Demo {
	return &Demo{match: newMatch("badminton_demo", "Badminton (CPU demo)", true)}
}

// ID returns the unique identifier for this game.
func (g *match) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *match) Title() string {
	return g.title
}

// SetConfig replaces the tuning used from the next Reset.
func (g *match) SetConfig(cfg config.BadmintonConfig) {
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
}

// SetObserver installs an observer called after every simulated tick.
func (g *match) SetObserver(o Observer) {
	g.observer = o
}

// Reset starts a new match with fresh agents. The rank is kept.
func (g *match) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.paused = false
	g.lastPoint = nil
	g.pointTimer = 0
	g.lastMatch = nil
	g.human.SetInput(core.NewInputFrame())

	s, err := NewSession(g.cfg, g.tracker)
	if err != nil {
		g.err = err
		g.session = nil
		return
	}
	g.err = nil
	g.session = s

	skill := g.difficulty.Skill(g.cfg.CPU, g.tracker.Serialize().Ordinal())
	g.agents[1] = NewCPUAgent(g.cfg, skill, runtime.Seed)
	s.SetSpeedFactor(core.Player2, skill.SpeedFactor)
	if g.demo {
		g.agents[0] = NewCPUAgent(g.cfg, skill, runtime.Seed+1)
		s.SetSpeedFactor(core.Player1, skill.SpeedFactor)
		s.SetHuman(core.Player1, false)
	}
}

// Step advances the game by one tick.
func (g *match) Step(in core.InputFrame) core.StepResult {
	if g.session == nil {
		return core.StepResult{State: g.State()}
	}

	if g.session.Over() {
		if in.Has(core.ActionRestart) {
			g.Reset(g.runtime)
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	var left Intent
	if g.demo {
		left = g.agents[0].Decide(g.session.World(core.Player1))
	} else {
		g.human.SetInput(in)
		left = g.human.Decide(g.session.World(core.Player1))
	}
	right := g.agents[1].Decide(g.session.World(core.Player2))

	res := g.session.Step(left, right)
	if res.Err != nil {
		g.err = res.Err
	}
	if g.pointTimer > 0 {
		g.pointTimer--
	}
	if res.Point != nil {
		g.lastPoint = res.Point
		g.pointTimer = pointBannerTicks
	}
	if res.Match != nil {
		g.lastMatch = res.Match
	}
	if g.observer != nil {
		g.observer.Observe(g.session.Snapshot(), res)
	}

	return core.StepResult{State: g.State(), MatchOver: res.Match != nil}
}

// State returns the current game state.
func (g *match) State() core.GameState {
	st := core.GameState{Paused: g.paused}
	if g.session != nil {
		st.Score = g.session.Score().Of(core.Player1)
		st.GameOver = g.session.Over()
	}
	return st
}

// Snapshot returns the session snapshot, or a zero value before Reset.
func (g *match) Snapshot() Snapshot {
	if g.session == nil {
		return Snapshot{Rank: g.tracker.Serialize()}
	}
	return g.session.Snapshot()
}

// LastMatch returns the most recent match result, or nil while playing.
func (g *match) LastMatch() *MatchEnded {
	return g.lastMatch
}

// Err returns the configuration or simulation fault, if any.
func (g *match) Err() error {
	return g.err
}

// Register the games with the registry
func init() {
	registry.Register("badminton", func() registry.Game {
		return New()
	})
	registry.Register("badminton_demo", func() registry.Game {
		return NewDemo()
	})
}

var (
	_ registry.Game   = (*Game)(nil)
	_ registry.Ranked = (*Game)(nil)
	_ registry.Game   = (*Demo)(nil)
)
