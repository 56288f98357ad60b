package rank

import "fmt"

// Change reports the effect of one Apply call.
type Change struct {
	From    State
	To      State
	Awarded int
}

// RankedUp reports whether at least one tier was gained.
func (c Change) RankedUp() bool {
	return c.To.Ordinal() > c.From.Ordinal()
}

// Tracker holds the process-wide rank of one profile.
// It is not safe for concurrent use.
type Tracker struct {
	state State
}

// NewTracker creates a tracker at Bronze I with no progress.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Serialize returns the current state.
func (t *Tracker) Serialize() State {
	return t.state
}

// Load replaces the current state after validating it.
func (t *Tracker) Load(s State) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("rank: load: %w", err)
	}
	t.state = s
	return nil
}

// Apply adds points and advances tiers while the threshold is met.
// Non-positive awards leave the state unchanged.
func (t *Tracker) Apply(points int) Change {
	ch := Change{From: t.state, Awarded: points}
	if points <= 0 {
		ch.Awarded = 0
		ch.To = t.state
		return ch
	}

	s := t.state
	s.ProgressPoints += points
	for !s.AtTop() {
		need := PointsNeeded(s.RankIndex, s.TierIndex)
		if s.ProgressPoints < need {
			break
		}
		s.ProgressPoints -= need
		s.TierIndex++
		if s.TierIndex >= TiersPerRank {
			s.TierIndex = 0
			s.RankIndex++
		}
	}

	t.state = s
	ch.To = s
	return ch
}
