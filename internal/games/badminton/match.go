package badminton

import (
	"fmt"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
)

// MatchScore holds the points of both sides, indexed by PlayerID.Index.
type MatchScore struct {
	Points [2]int `json:"points"`
}

// Of returns the points of one side.
func (m MatchScore) Of(id core.PlayerID) int {
	if id.Index() < 0 {
		return 0
	}
	return m.Points[id.Index()]
}

// Add gives one point to id.
func (m *MatchScore) Add(id core.PlayerID) {
	if id.Index() < 0 {
		return
	}
	m.Points[id.Index()]++
}

// Winner returns the side that has won under rules, or NoPlayer while the
// match is still open. A side wins on reaching WinningScore with a lead of
// WinMargin, or outright on reaching ScoreCap.
func (m MatchScore) Winner(rules config.RulesConfig) core.PlayerID {
	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		own, other := m.Of(id), m.Of(id.Opponent())
		if own >= rules.ScoreCap && own > other {
			return id
		}
		if own >= rules.WinningScore && own-other >= rules.WinMargin {
			return id
		}
	}
	return core.NoPlayer
}

// Margin returns the absolute point difference.
func (m MatchScore) Margin() int {
	d := m.Points[0] - m.Points[1]
	if d < 0 {
		return -d
	}
	return d
}

// Deuce reports whether both sides have reached game point and the match
// is still open, so it can only be won by the margin.
func (m MatchScore) Deuce(rules config.RulesConfig) bool {
	point := rules.WinningScore - 1
	return m.Points[0] >= point && m.Points[1] >= point && m.Winner(rules) == core.NoPlayer
}

// String returns e.g. "21-19".
func (m MatchScore) String() string {
	return fmt.Sprintf("%d-%d", m.Points[0], m.Points[1])
}
