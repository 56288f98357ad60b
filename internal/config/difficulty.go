package config

import "math"

// DifficultyManager maps the human's rank to CPU opponent strength.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty level (0.0 to 1.0) for a rank ordinal
// (rank index * tiers + tier index).
func (d *DifficultyManager) Level(rankOrdinal int) float64 {
	if !d.IsEnabled() || d.cfg.Progression.Type != "rank" {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}
	progress := clampF(float64(rankOrdinal)/maxAt, 0.0, 1.0)

	// Interpolate from initial level to 1.0
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Skill holds CPU parameters derived from a difficulty level.
type Skill struct {
	SpeedFactor float64 // Multiplier on player move speed
	Reaction    int     // Ticks between re-plans
	Accuracy    float64 // 0 = full inaccuracy, 1 = perfect targeting
}

// Skill derives CPU parameters for the given rank ordinal.
func (d *DifficultyManager) Skill(cpu CPUConfig, rankOrdinal int) Skill {
	level := d.Level(rankOrdinal)

	reaction := cpu.BaseReaction - int(math.Round(level*float64(d.cfg.Scaling.ReactionReduction)))
	if reaction < cpu.ReactionMin {
		reaction = cpu.ReactionMin
	}
	if reaction > cpu.ReactionMax {
		reaction = cpu.ReactionMax
	}

	return Skill{
		SpeedFactor: 1.0 + level*d.cfg.Scaling.SpeedMultiplier,
		Reaction:    reaction,
		Accuracy:    clampF(cpu.BaseAccuracy+level*d.cfg.Scaling.AccuracyGain, 0.0, 0.98),
	}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
