package badminton

import (
	"testing"

	"github.com/vovakirdan/tui-badminton/internal/config"
	"github.com/vovakirdan/tui-badminton/internal/core"
)

func TestMatchScoreWinner(t *testing.T) {
	rules := config.DefaultBadmintonConfig().Rules
	tests := []struct {
		name     string
		points   [2]int
		expected core.PlayerID
	}{
		{"21-15", [2]int{21, 15}, core.Player1},
		{"15-21", [2]int{15, 21}, core.Player2},
		{"21-19", [2]int{21, 19}, core.Player1},
		{"21-20 needs margin", [2]int{21, 20}, core.NoPlayer},
		{"20-20", [2]int{20, 20}, core.NoPlayer},
		{"22-20", [2]int{22, 20}, core.Player1},
		{"28-29", [2]int{28, 29}, core.NoPlayer},
		{"29-29", [2]int{29, 29}, core.NoPlayer},
		{"30-29 cap", [2]int{30, 29}, core.Player1},
		{"29-30 cap", [2]int{29, 30}, core.Player2},
		{"0-0", [2]int{0, 0}, core.NoPlayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MatchScore{Points: tt.points}
			if got := m.Winner(rules); got != tt.expected {
				t.Errorf("Winner() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestMatchScoreDeuce(t *testing.T) {
	rules := config.DefaultBadmintonConfig().Rules
	tests := []struct {
		name     string
		points   [2]int
		expected bool
	}{
		{"19-20", [2]int{19, 20}, false},
		{"20-20", [2]int{20, 20}, true},
		{"21-20", [2]int{21, 20}, true},
		{"25-26", [2]int{25, 26}, true},
		{"22-20 over", [2]int{22, 20}, false},
		{"29-29", [2]int{29, 29}, true},
		{"30-29 cap", [2]int{30, 29}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MatchScore{Points: tt.points}
			if got := m.Deuce(rules); got != tt.expected {
				t.Errorf("Deuce() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestMatchScoreAddAndMargin(t *testing.T) {
	var m MatchScore
	m.Add(core.Player2)
	m.Add(core.Player2)
	m.Add(core.Player1)
	m.Add(core.NoPlayer)

	if m.Of(core.Player1) != 1 || m.Of(core.Player2) != 2 {
		t.Errorf("score = %s, expected 1-2", m)
	}
	if m.Margin() != 1 {
		t.Errorf("Margin() = %d, expected 1", m.Margin())
	}
	if m.String() != "1-2" {
		t.Errorf("String() = %q, expected %q", m.String(), "1-2")
	}
}
