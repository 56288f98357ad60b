package badminton

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/vovakirdan/tui-badminton/internal/core"
	"github.com/vovakirdan/tui-badminton/internal/rank"
)

// PlayerView is a read-only copy of a player's state.
type PlayerView struct {
	ID            core.PlayerID `json:"id"`
	Pos           core.Vec2     `json:"pos"`
	Vel           core.Vec2     `json:"vel"`
	Width         float64       `json:"width"`
	Height        float64       `json:"height"`
	Facing        Facing        `json:"facing"`
	IsHuman       bool          `json:"is_human"`
	OnGround      bool          `json:"on_ground"`
	Swinging      bool          `json:"swinging"`
	SwingTimer    int           `json:"swing_timer"`
	SwingCooldown int           `json:"swing_cooldown"`
	PreparePower  float64       `json:"prepare_power"`
	Racket        core.FRect    `json:"racket"`
}

// ShuttleView is a read-only copy of the shuttle's state.
type ShuttleView struct {
	Pos        core.Vec2     `json:"pos"`
	Vel        core.Vec2     `json:"vel"`
	Radius     float64       `json:"radius"`
	InPlay     bool          `json:"in_play"`
	LastHitter core.PlayerID `json:"last_hitter"`
}

// Snapshot is the complete observable state of a session after a tick.
// It is a value; modifying it does not affect the session.
type Snapshot struct {
	Tick      uint64        `json:"tick"`
	Phase     Phase         `json:"phase"`
	Server    core.PlayerID `json:"server"`
	Players   [2]PlayerView `json:"players"`
	Shuttle   ShuttleView   `json:"shuttle"`
	Score     MatchScore    `json:"score"`
	RallyHits int           `json:"rally_hits"`
	MatchOver bool          `json:"match_over"`
	Winner    core.PlayerID `json:"winner"`
	Rank      rank.State    `json:"rank"`
}

func viewPlayer(p *Player) PlayerView {
	return PlayerView{
		ID:            p.ID,
		Pos:           p.Pos,
		Vel:           p.Vel,
		Width:         p.Width,
		Height:        p.Height,
		Facing:        p.Facing,
		IsHuman:       p.IsHuman,
		OnGround:      p.OnGround,
		Swinging:      p.Swinging,
		SwingTimer:    p.SwingTimer,
		SwingCooldown: p.SwingCooldown,
		PreparePower:  p.PreparePower,
		Racket:        p.RacketRect(),
	}
}

func viewShuttle(s *Shuttle) ShuttleView {
	return ShuttleView{
		Pos:        s.Pos,
		Vel:        s.Vel,
		Radius:     s.Radius,
		InPlay:     s.InPlay,
		LastHitter: s.LastHitter,
	}
}

// Hash returns a digest of the simulation state for determinism testing.
// Floats are hashed by their bit patterns, so equal hashes mean
// bit-identical trajectories.
func (snap *Snapshot) Hash() uint64 {
	buf := make([]byte, 0, 256)
	u := func(v uint64) { buf = binary.LittleEndian.AppendUint64(buf, v) }
	f := func(v float64) { u(math.Float64bits(v)) }
	i := func(v int) { u(uint64(int64(v))) } //#nosec G115 -- hash computation
	b := func(v bool) {
		if v {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	}

	u(snap.Tick)
	i(int(snap.Phase))
	i(int(snap.Server))
	for _, p := range snap.Players {
		f(p.Pos.X)
		f(p.Pos.Y)
		f(p.Vel.X)
		f(p.Vel.Y)
		b(p.OnGround)
		b(p.Swinging)
		i(p.SwingTimer)
		i(p.SwingCooldown)
		f(p.PreparePower)
	}
	f(snap.Shuttle.Pos.X)
	f(snap.Shuttle.Pos.Y)
	f(snap.Shuttle.Vel.X)
	f(snap.Shuttle.Vel.Y)
	b(snap.Shuttle.InPlay)
	i(int(snap.Shuttle.LastHitter))
	i(snap.Score.Points[0])
	i(snap.Score.Points[1])
	i(snap.RallyHits)
	b(snap.MatchOver)
	i(snap.Rank.RankIndex)
	i(snap.Rank.TierIndex)
	i(snap.Rank.ProgressPoints)

	return xxhash.Sum64(buf)
}
