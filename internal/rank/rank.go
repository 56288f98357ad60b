// Package rank implements the cross-match tiered ranking ladder.
//
// The ladder is six ranks of three tiers each. Progress points award at
// match end advance the tier when they meet the current threshold; the
// top tier absorbs any further progress without consuming it.
package rank

import (
	"errors"
	"fmt"
)

// Ranks lists the ladder from lowest to highest.
var Ranks = []string{"Bronze", "Silver", "Gold", "Diamond", "Platinum", "Divine"}

// Tiers lists the tiers within each rank.
var Tiers = []string{"I", "II", "III"}

// TiersPerRank is the number of tiers in every rank.
const TiersPerRank = 3

// MaxOrdinal is the ordinal of the top tier (Divine III).
var MaxOrdinal = len(Ranks)*TiersPerRank - 1

// ErrOutOfBounds is returned when a State lies outside the ladder.
var ErrOutOfBounds = errors.New("rank: state out of bounds")

// State is the serialized rank of one profile.
type State struct {
	RankIndex      int `json:"rank_index" yaml:"rank_index"`
	TierIndex      int `json:"tier_index" yaml:"tier_index"`
	ProgressPoints int `json:"progress_points" yaml:"progress_points"`
}

// Validate checks that s lies on the ladder.
func (s State) Validate() error {
	if s.RankIndex < 0 || s.RankIndex >= len(Ranks) {
		return fmt.Errorf("%w: rank_index %d", ErrOutOfBounds, s.RankIndex)
	}
	if s.TierIndex < 0 || s.TierIndex >= TiersPerRank {
		return fmt.Errorf("%w: tier_index %d", ErrOutOfBounds, s.TierIndex)
	}
	if s.ProgressPoints < 0 {
		return fmt.Errorf("%w: progress_points %d", ErrOutOfBounds, s.ProgressPoints)
	}
	return nil
}

// Ordinal returns the position of s on the ladder, 0 for Bronze I.
func (s State) Ordinal() int {
	return s.RankIndex*TiersPerRank + s.TierIndex
}

// AtTop reports whether s is the highest tier.
func (s State) AtTop() bool {
	return s.Ordinal() >= MaxOrdinal
}

// Name returns e.g. "Gold II".
func (s State) Name() string {
	if s.Validate() != nil {
		return "Unranked"
	}
	return Ranks[s.RankIndex] + " " + Tiers[s.TierIndex]
}

// String returns e.g. "Gold II (4/14)".
func (s State) String() string {
	return fmt.Sprintf("%s (%d/%d)", s.Name(), s.ProgressPoints, PointsNeeded(s.RankIndex, s.TierIndex))
}

// PointsNeeded returns the progress threshold for leaving the given tier.
func PointsNeeded(rankIndex, tierIndex int) int {
	return 6 + 4*rankIndex + 2*tierIndex
}

// Award describes the award curve applied at match end.
type Award struct {
	Win            int // Base award for a human win
	MarginStep     int // Score margin per bonus point
	MaxMarginBonus int
}

// For returns the progress points for a finished match.
// Losses award nothing; ranks never go down.
func (a Award) For(humanWon bool, margin int) int {
	if !humanWon {
		return 0
	}
	bonus := 0
	if a.MarginStep > 0 && margin > 0 {
		bonus = min(margin/a.MarginStep, a.MaxMarginBonus)
	}
	return a.Win + bonus
}
