package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const badmintonFile = "badminton.yaml"

// LoadBadminton loads badminton configuration.
// Search order: customPath -> ~/.badminton/configs/badminton.yaml -> ./configs/badminton.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the keys it names.
// A custom path that cannot be read, parsed or validated is an error; the other
// locations are skipped silently when unusable.
func LoadBadminton(customPath string) (BadmintonConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return BadmintonConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decodeBadminton(data)
		if err != nil {
			return BadmintonConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return BadmintonConfig{}, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{filepath.Join("configs", badmintonFile)}
	if userCfgPath := userConfigPath(badmintonFile); userCfgPath != "" {
		candidates = append([]string{userCfgPath}, candidates...)
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := decodeBadminton(data); err == nil && cfg.Validate() == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := decodeBadminton(defaultBadmintonYAML)
	if err != nil {
		return DefaultBadmintonConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// decodeBadminton unmarshals data on top of the hardcoded defaults.
func decodeBadminton(data []byte) (BadmintonConfig, error) {
	cfg := DefaultBadmintonConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return BadmintonConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".badminton", "configs", filename)
}

// ApplyBadmintonPreset modifies the config based on a difficulty preset.
func ApplyBadmintonPreset(cfg *BadmintonConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}

// ParsePreset converts a flag value to a DifficultyPreset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}
