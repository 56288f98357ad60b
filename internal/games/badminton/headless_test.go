package badminton

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
)

func TestHeadlessPlaysMatches(t *testing.T) {
	h, err := NewHeadless(config.DefaultBadmintonConfig(), 7)
	if err != nil {
		t.Fatalf("NewHeadless() error = %v", err)
	}
	obs := &recordingObserver{}
	h.Observer = obs
	var steps int
	h.OnStep = func(time.Duration) { steps++ }
	h.MaxTicks = 200000

	for i := 0; i < 2; i++ {
		res, err := h.PlayMatch(context.Background())
		if err != nil {
			t.Fatalf("PlayMatch() error = %v", err)
		}
		if res.Winner != core.Player1 && res.Winner != core.Player2 {
			t.Errorf("Winner = %v, expected a side", res.Winner)
		}
		if res.Score.Of(res.Winner) < 21 {
			t.Errorf("winning score = %d, expected at least 21", res.Score.Of(res.Winner))
		}
		if res.Score.Of(res.Winner.Opponent()) == 0 {
			t.Errorf("match %d ended %v, expected both sides to score", i, res.Score)
		}
	}
	if steps != obs.ticks {
		t.Errorf("OnStep calls = %d, observed ticks = %d", steps, obs.ticks)
	}
	if obs.returned*2 < obs.points {
		t.Errorf("%d of %d points had a return, expected most rallies to go past the serve", obs.returned, obs.points)
	}
}

func TestHeadlessDeterministic(t *testing.T) {
	play := func() *MatchEnded {
		h, err := NewHeadless(config.DefaultBadmintonConfig(), 99)
		if err != nil {
			t.Fatal(err)
		}
		h.MaxTicks = 200000
		res, err := h.PlayMatch(context.Background())
		if err != nil {
			t.Fatalf("PlayMatch() error = %v", err)
		}
		return res
	}

	a, b := play(), play()
	if a.Score != b.Score || a.Winner != b.Winner {
		t.Errorf("same seed gave %v and %v", a.Score, b.Score)
	}
}

func TestHeadlessTickLimit(t *testing.T) {
	h, err := NewHeadless(config.DefaultBadmintonConfig(), 1)
	if err != nil {
		t.Fatal(err)
	}
	h.MaxTicks = 10

	if _, err := h.PlayMatch(context.Background()); !errors.Is(err, ErrTickLimit) {
		t.Errorf("PlayMatch() error = %v, expected ErrTickLimit", err)
	}
}

func TestHeadlessCancelled(t *testing.T) {
	h, err := NewHeadless(config.DefaultBadmintonConfig(), 1)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := h.PlayMatch(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("PlayMatch() error = %v, expected context.Canceled", err)
	}
}

func TestHeadlessRejectsBadConfig(t *testing.T) {
	cfg := config.DefaultBadmintonConfig()
	cfg.Rules.WinningScore = 0
	if _, err := NewHeadless(cfg, 1); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("NewHeadless() error = %v, expected ErrInvalidConfig", err)
	}
}
