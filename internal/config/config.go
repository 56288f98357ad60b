// Package config provides YAML-based game configuration loading and
// difficulty management for the badminton platform.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// BadmintonConfig contains all tuning for a badminton session.
// A Session treats it as immutable once constructed.
type BadmintonConfig struct {
	Court      CourtConfig      `yaml:"court"`
	Player     PlayerConfig     `yaml:"player"`
	Racket     RacketConfig     `yaml:"racket"`
	Shuttle    ShuttleConfig    `yaml:"shuttle"`
	Rules      RulesConfig      `yaml:"rules"`
	Rank       RankConfig       `yaml:"rank"`
	CPU        CPUConfig        `yaml:"cpu"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// CourtConfig defines the side-view court geometry in world units.
type CourtConfig struct {
	Width     float64 `yaml:"width"`      // Full world width
	Height    float64 `yaml:"height"`     // Full world height
	GroundY   float64 `yaml:"ground_y"`   // Ground line (y grows downward)
	Margin    float64 `yaml:"margin"`     // Distance from world edge to the baseline
	NetHeight float64 `yaml:"net_height"` // Net top is GroundY - NetHeight
	NetWidth  float64 `yaml:"net_width"`
}

// CourtWidth returns the playable width between the two baselines.
func (c CourtConfig) CourtWidth() float64 {
	return c.Width - 2*c.Margin
}

// NetX returns the x-coordinate of the net column center.
func (c CourtConfig) NetX() float64 {
	return c.Margin + c.CourtWidth()/2
}

// NetTop returns the y-coordinate of the top of the net.
func (c CourtConfig) NetTop() float64 {
	return c.GroundY - c.NetHeight
}

// PlayerConfig defines player body and movement parameters.
type PlayerConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	Speed           float64 `yaml:"speed"`
	JumpVelocity    float64 `yaml:"jump_velocity"` // Negative = up
	Gravity         float64 `yaml:"gravity"`
	StartOffset     float64 `yaml:"start_offset"` // Start distance from the net
	EdgePadding     float64 `yaml:"edge_padding"` // Closest approach to the baseline
	NetPadding      float64 `yaml:"net_padding"`  // Closest approach to the net
	ChargeRate      float64 `yaml:"charge_rate"`
	ChargeDecay     float64 `yaml:"charge_decay"`
	MaxPreparePower float64 `yaml:"max_prepare_power"`
}

// RacketConfig defines the racket hit region and swing timing.
type RacketConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	OffsetX       float64 `yaml:"offset_x"`
	OffsetY       float64 `yaml:"offset_y"`
	SwingWindow   int     `yaml:"swing_window"`   // Ticks the hit window stays open
	SwingCooldown int     `yaml:"swing_cooldown"` // Ticks before another swing may start
	HitPower      float64 `yaml:"hit_power"`
	PowerGain     float64 `yaml:"power_gain"`   // Speed added per unit of prepare power
	BaseAngle     float64 `yaml:"base_angle"`   // Degrees above horizontal at racket center
	AngleSpread   float64 `yaml:"angle_spread"` // Degrees added at the racket's bottom edge
}

// ShuttleConfig defines shuttle physics and serve placement.
type ShuttleConfig struct {
	Radius       float64 `yaml:"radius"`
	Gravity      float64 `yaml:"gravity"`
	DragCoeff    float64 `yaml:"drag_coeff"`
	ServeOffsetX float64 `yaml:"serve_offset_x"` // Toward the net from the server's center
	ServeOffsetY float64 `yaml:"serve_offset_y"` // From the server's top edge
	ServePower   float64 `yaml:"serve_power"`
	ServeAngle   float64 `yaml:"serve_angle"`
}

// RulesConfig defines match scoring.
type RulesConfig struct {
	WinningScore   int    `yaml:"winning_score"`
	WinMargin      int    `yaml:"win_margin"`
	ScoreCap       int    `yaml:"score_cap"`
	StartingServer string `yaml:"starting_server"` // "player" or "cpu"
}

// RankConfig defines the progress award curve applied at match end.
type RankConfig struct {
	WinAward       int `yaml:"win_award"`
	MarginStep     int `yaml:"margin_step"`
	MaxMarginBonus int `yaml:"max_margin_bonus"`
}

// CPUConfig defines the default computer opponent policy.
type CPUConfig struct {
	BaseReaction  int     `yaml:"base_reaction"` // Ticks between re-plans at skill 0
	ReactionMin   int     `yaml:"reaction_min"`
	ReactionMax   int     `yaml:"reaction_max"`
	Inaccuracy    float64 `yaml:"inaccuracy"` // Max target error at zero accuracy
	BaseAccuracy  float64 `yaml:"base_accuracy"`
	SwingChance   float64 `yaml:"swing_chance"`
	JumpChance    float64 `yaml:"jump_chance"`
	ServeChance   float64 `yaml:"serve_chance"` // Per-tick chance to serve when ready
	TrackDeadzone float64 `yaml:"track_deadzone"`
	PredictTicks  int     `yaml:"predict_ticks"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases with the human's rank.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "rank" or "none"
	MaxAt int    `yaml:"max_at"` // Rank ordinal at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes at max level.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`   // Added to CPU move speed
	ReactionReduction int     `yaml:"reaction_reduction"` // Ticks removed from re-plan delay
	AccuracyGain      float64 `yaml:"accuracy_gain"`      // Added to CPU accuracy
}

// Validate reports the first inconsistent setting.
func (c BadmintonConfig) Validate() error {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(c.Court.Width > 0 && c.Court.Height > 0, "court size must be positive")
	check(c.Court.Margin >= 0 && c.Court.CourtWidth() > 0, "court margin leaves no playable width")
	check(c.Court.GroundY > 0 && c.Court.GroundY <= c.Court.Height, "ground_y must lie inside the court")
	check(c.Court.NetHeight > 0 && c.Court.NetHeight < c.Court.GroundY, "net_height out of range")
	check(c.Court.NetWidth > 0, "net_width must be positive")
	check(c.Player.Width > 0 && c.Player.Height > 0, "player size must be positive")
	check(c.Player.Speed > 0, "player speed must be positive")
	check(c.Player.JumpVelocity < 0, "jump_velocity must be negative (up)")
	check(c.Player.Gravity > 0, "player gravity must be positive")
	check(c.Player.ChargeDecay >= 0 && c.Player.ChargeDecay <= 1, "charge_decay must be in [0, 1]")
	check(c.Racket.Width > 0 && c.Racket.Height > 0, "racket size must be positive")
	check(c.Racket.SwingWindow > 0, "swing_window must be positive")
	check(c.Racket.SwingCooldown >= c.Racket.SwingWindow, "swing_cooldown must cover the swing window")
	check(c.Racket.HitPower > 0, "hit_power must be positive")
	check(c.Shuttle.Radius > 0, "shuttle radius must be positive")
	check(c.Shuttle.DragCoeff > 0, "drag_coeff must be positive")
	check(c.Shuttle.ServePower > 0, "serve_power must be positive")
	check(c.Rules.WinningScore > 0, "winning_score must be positive")
	check(c.Rules.WinMargin >= 1, "win_margin must be at least 1")
	check(c.Rules.ScoreCap >= c.Rules.WinningScore, "score_cap must not be below winning_score")
	check(c.Rules.StartingServer == "player" || c.Rules.StartingServer == "cpu", "starting_server must be player or cpu")
	check(c.Rank.WinAward >= 0 && c.Rank.MaxMarginBonus >= 0, "rank awards must not be negative")
	check(c.CPU.ReactionMin > 0 && c.CPU.ReactionMax >= c.CPU.ReactionMin, "cpu reaction range invalid")
	check(c.CPU.PredictTicks > 0, "predict_ticks must be positive")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the difficulty presets in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
