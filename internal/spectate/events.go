// Package spectate streams live badminton sessions to HTTP spectators and
// exposes engine metrics for Prometheus.
//
// The engine hands every tick to a Hub through the non-blocking
// badminton.Observer interface. The hub keeps the latest snapshot for the
// REST endpoints and fans events out to WebSocket subscribers on its own
// goroutine, so a slow spectator never stalls the simulation.
package spectate

import (
	"encoding/json"

	"github.com/vovakirdan/tui-badminton/internal/core"
	"github.com/vovakirdan/tui-badminton/internal/games/badminton"
	"github.com/vovakirdan/tui-badminton/internal/rank"
)

// Event is a message streamed to spectators.
type Event interface {
	// Name is the event name on the wire, e.g. "snapshot".
	Name() string
}

// SnapshotEvent carries the full observable state after a tick.
type SnapshotEvent struct {
	Snapshot badminton.Snapshot
}

func (SnapshotEvent) Name() string { return "snapshot" }

// PointEvent is sent when a rally ends.
type PointEvent struct {
	Tick   uint64        `json:"tick"`
	Winner core.PlayerID `json:"winner"`
	Cause  string        `json:"cause"`
	X      float64       `json:"x"`
	Hits   int           `json:"hits"`
	Ticks  int           `json:"ticks"`
	Score  [2]int        `json:"score"`
}

func (PointEvent) Name() string { return "point" }

// MatchEvent is sent when a match ends.
type MatchEvent struct {
	Tick     uint64        `json:"tick"`
	Winner   core.PlayerID `json:"winner"`
	Score    [2]int        `json:"score"`
	Awarded  int           `json:"awarded"`
	From     rank.State    `json:"from"`
	To       rank.State    `json:"to"`
	RankedUp bool          `json:"ranked_up"`
}

func (MatchEvent) Name() string { return "match" }

// FaultEvent is sent once when a session halts on an internal fault.
type FaultEvent struct {
	Tick  uint64 `json:"tick"`
	Error string `json:"error"`
}

func (FaultEvent) Name() string { return "fault" }

// envelope is the wire format of every event.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Encode renders an event as {"event": name, "data": payload}.
func Encode(e Event) ([]byte, error) {
	var data any = e
	if s, ok := e.(SnapshotEvent); ok {
		data = s.Snapshot
	}
	return json.Marshal(envelope{Event: e.Name(), Data: data})
}

// eventsFor lists the discrete events a tick produced, snapshot excluded.
func eventsFor(res badminton.TickResult) []Event {
	var events []Event
	if p := res.Point; p != nil {
		events = append(events, PointEvent{
			Tick:   res.Tick,
			Winner: p.Winner,
			Cause:  p.Cause.String(),
			X:      p.X,
			Hits:   p.Hits,
			Ticks:  p.Ticks,
			Score:  p.Score.Points,
		})
	}
	if m := res.Match; m != nil {
		events = append(events, MatchEvent{
			Tick:     res.Tick,
			Winner:   m.Winner,
			Score:    m.Score.Points,
			Awarded:  m.Rank.Awarded,
			From:     m.Rank.From,
			To:       m.Rank.To,
			RankedUp: m.Rank.RankedUp(),
		})
	}
	return events
}
