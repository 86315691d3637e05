package config

import (
	"fmt"
	"strings"
	"time"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the presets in the order they are offered to players.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyNormal, nil
	}
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyTileDropPreset adjusts gravity timing and level progression for a preset.
// Normal leaves the loaded configuration untouched.
func ApplyTileDropPreset(cfg *TileDropConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Progression.Enabled = true
		cfg.Timing.InitInterval = scale(cfg.Timing.InitInterval, 3, 2)
		cfg.Timing.SpeedUp = scale(cfg.Timing.SpeedUp, 1, 2)
		cfg.Progression.LevelUpScore *= 2
	case DifficultyHard:
		cfg.Progression.Enabled = true
		cfg.Timing.InitInterval = scale(cfg.Timing.InitInterval, 2, 3)
		cfg.Timing.SpeedUp = scale(cfg.Timing.SpeedUp, 3, 2)
		cfg.Progression.LevelUpScore /= 2
	case DifficultyFixed:
		cfg.Progression.Enabled = false
	}

	if cfg.Timing.InitInterval < cfg.Timing.MinInterval {
		cfg.Timing.InitInterval = cfg.Timing.MinInterval
	}
	if cfg.Progression.Enabled && cfg.Progression.LevelUpScore <= 0 {
		cfg.Progression.LevelUpScore = 1
	}
}

// scale multiplies d by num/den, rounded to whole milliseconds.
func scale(d time.Duration, num, den int64) time.Duration {
	return (d * time.Duration(num) / time.Duration(den)).Round(time.Millisecond)
}
