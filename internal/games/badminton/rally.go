package badminton

import "github.com/vovakirdan/tui-badminton/internal/core"

// Phase is the rally state.
type Phase int

const (
	PhaseAwaitingServe Phase = iota
	PhaseInPlay
	PhasePointScored
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingServe:
		return "awaiting_serve"
	case PhaseInPlay:
		return "in_play"
	case PhasePointScored:
		return "point_scored"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase as its name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Rally tracks one point from serve to score.
type Rally struct {
	Server      core.PlayerID
	Phase       Phase
	PointWinner core.PlayerID

	// Hits counts racket contacts, the serve included.
	Hits int
	// Ticks counts ticks spent in play.
	Ticks int
}

// NewRally starts a rally awaiting the given server.
func NewRally(server core.PlayerID) Rally {
	return Rally{Server: server, Phase: PhaseAwaitingServe}
}

// Serve moves AwaitingServe to InPlay.
func (r *Rally) Serve(tick uint64) error {
	if r.Phase != PhaseAwaitingServe {
		return newInvariantError(tick, "serve outside awaiting_serve (phase %s)", r.Phase)
	}
	if r.Server == core.NoPlayer {
		return newInvariantError(tick, "serve with no server designated")
	}
	r.Phase = PhaseInPlay
	r.Hits = 1
	return nil
}

// Return records a rally hit.
func (r *Rally) Return() {
	r.Hits++
}

// Score moves InPlay to PointScored. Scoring from any other phase is a fault.
func (r *Rally) Score(tick uint64, winner core.PlayerID) error {
	if r.Phase != PhaseInPlay {
		return newInvariantError(tick, "point scored from %s", r.Phase)
	}
	if winner.Index() < 0 {
		return newInvariantError(tick, "point scored with no winner")
	}
	r.Phase = PhasePointScored
	r.PointWinner = winner
	return nil
}

// Next begins the following rally, served by the point winner.
func (r *Rally) Next(tick uint64) (Rally, error) {
	if r.Phase != PhasePointScored {
		return *r, newInvariantError(tick, "next rally from %s", r.Phase)
	}
	return NewRally(r.PointWinner), nil
}

// check verifies the phase/server relationship.
func (r *Rally) check(tick uint64) error {
	if r.Phase == PhaseInPlay && r.Server == core.NoPlayer {
		return newInvariantError(tick, "in_play with no server designated")
	}
	return nil
}
