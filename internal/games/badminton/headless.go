package badminton

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
	"github.com/vovakirdan/tui-badminton/internal/rank"
)

// ErrTickLimit is returned when a headless match runs past its tick budget.
var ErrTickLimit = errors.New("badminton: match exceeded tick limit")

// Headless plays CPU vs CPU matches without a screen. The left CPU plays
// under a rank tracker that carries across matches, so a long run climbs
// the ladder like a player would.
type Headless struct {
	cfg        config.BadmintonConfig
	tracker    *rank.Tracker
	difficulty *config.DifficultyManager
	seed       int64
	played     int

	// Observer, when set, sees every tick.
	Observer Observer

	// OnStep, when set, receives the wall time of every Session.Step.
	OnStep func(d time.Duration)

	// Pace, when set, is waited on between ticks.
	Pace <-chan time.Time

	// MaxTicks bounds a single match. Zero means no bound.
	MaxTicks uint64
}

// NewHeadless validates cfg and prepares a runner.
func NewHeadless(cfg config.BadmintonConfig, seed int64) (*Headless, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("badminton: headless: %w", err)
	}
	return &Headless{
		cfg:        cfg,
		tracker:    rank.NewTracker(),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		seed:       seed,
	}, nil
}

// Rank returns the left side's rank.
func (h *Headless) Rank() rank.State {
	return h.tracker.Serialize()
}

// PlayMatch plays one match to completion and returns its result.
func (h *Headless) PlayMatch(ctx context.Context) (*MatchEnded, error) {
	s, err := NewSession(h.cfg, h.tracker)
	if err != nil {
		return nil, err
	}
	s.SetHuman(core.Player1, false)

	skill := h.difficulty.Skill(h.cfg.CPU, h.tracker.Serialize().Ordinal())
	seed := h.seed + int64(2*h.played)
	h.played++
	agents := [2]Agent{
		NewCPUAgent(h.cfg, skill, seed),
		NewCPUAgent(h.cfg, skill, seed+1),
	}
	s.SetSpeedFactor(core.Player1, skill.SpeedFactor)
	s.SetSpeedFactor(core.Player2, skill.SpeedFactor)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if h.MaxTicks > 0 && s.Tick() >= h.MaxTicks {
			return nil, fmt.Errorf("%w: %d ticks at %s", ErrTickLimit, s.Tick(), s.Score())
		}

		left := agents[0].Decide(s.World(core.Player1))
		right := agents[1].Decide(s.World(core.Player2))

		start := time.Now()
		res := s.Step(left, right)
		if h.OnStep != nil {
			h.OnStep(time.Since(start))
		}
		if h.Observer != nil {
			h.Observer.Observe(s.Snapshot(), res)
		}

		if res.Err != nil {
			return nil, res.Err
		}
		if res.Match != nil {
			return res.Match, nil
		}

		if h.Pace != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-h.Pace:
			}
		}
	}
}
