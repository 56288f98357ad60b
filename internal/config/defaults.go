package config

import (
	_ "embed"
)

//go:embed defaults/badminton.yaml
var defaultBadmintonYAML []byte

// DefaultBadmintonConfig returns the default badminton configuration.
// It matches defaults/badminton.yaml and is used when the embedded file cannot be parsed.
func DefaultBadmintonConfig() BadmintonConfig {
	return BadmintonConfig{
		Court: CourtConfig{
			Width:     1100,
			Height:    640,
			GroundY:   560,
			Margin:    80,
			NetHeight: 95,
			NetWidth:  8,
		},
		Player: PlayerConfig{
			Width:           36,
			Height:          72,
			Speed:           5.2,
			JumpVelocity:    -12.5,
			Gravity:         0.65,
			StartOffset:     140,
			EdgePadding:     30,
			NetPadding:      10,
			ChargeRate:      0.15,
			ChargeDecay:     0.92,
			MaxPreparePower: 8,
		},
		Racket: RacketConfig{
			Width:         10,
			Height:        44,
			OffsetX:       28,
			OffsetY:       22,
			SwingWindow:   12,
			SwingCooldown: 14,
			HitPower:      32,
			PowerGain:     1.0,
			BaseAngle:     45,
			AngleSpread:   10,
		},
		Shuttle: ShuttleConfig{
			Radius:       9,
			Gravity:      0.55,
			DragCoeff:    0.0026,
			ServeOffsetX: 40,
			ServeOffsetY: -30,
			ServePower:   18,
			ServeAngle:   50,
		},
		Rules: RulesConfig{
			WinningScore:   21,
			WinMargin:      2,
			ScoreCap:       30,
			StartingServer: "player",
		},
		Rank: RankConfig{
			WinAward:       3,
			MarginStep:     5,
			MaxMarginBonus: 2,
		},
		CPU: CPUConfig{
			BaseReaction:  14,
			ReactionMin:   5,
			ReactionMax:   28,
			Inaccuracy:    20,
			BaseAccuracy:  0.7,
			SwingChance:   0.9,
			JumpChance:    0.6,
			ServeChance:   0.02,
			TrackDeadzone: 10,
			PredictTicks:  400,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "rank",
				MaxAt: 17,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:   0.3,
				ReactionReduction: 4,
				AccuracyGain:      0.28,
			},
		},
	}
}
