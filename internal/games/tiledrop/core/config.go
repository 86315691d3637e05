// Package core implements the falling-tile merge puzzle: grid, tiles, and the
// engine that resolves landings into merge and row-clear cascades.
// This package is UI-agnostic and deterministic for a given seed.
package core

import (
	"errors"
	"fmt"
	"time"
)

// Powers is the full ordered set of spawnable values. A mode selects a prefix.
var Powers = []int{2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096}

// Default session parameters.
const (
	DefaultRows         = 10
	DefaultColumns      = 6
	DefaultInitInterval = 1000 * time.Millisecond
	DefaultSpeedUp      = 100 * time.Millisecond
	DefaultMinInterval  = 100 * time.Millisecond
	DefaultSettleDelay  = 200 * time.Millisecond
	DefaultLevelUpScore = 1000
)

// ErrInvalidConfig is returned when session parameters cannot produce a playable game.
var ErrInvalidConfig = errors.New("tiledrop: invalid config")

// Config holds the fixed parameters of a session.
type Config struct {
	Rows    int
	Columns int
	Powers  []int

	InitInterval time.Duration // gravity period at level 1
	SpeedUp      time.Duration // interval reduction per level
	MinInterval  time.Duration // the interval never drops below this
	SettleDelay  time.Duration // gap between visible cascade sub-steps

	// LevelUpScore is the score step between levels; 0 disables progression.
	LevelUpScore int
}

// DefaultConfig returns the classic 10x6 board.
func DefaultConfig() Config {
	return Config{
		Rows:         DefaultRows,
		Columns:      DefaultColumns,
		Powers:       append([]int(nil), Powers...),
		InitInterval: DefaultInitInterval,
		SpeedUp:      DefaultSpeedUp,
		MinInterval:  DefaultMinInterval,
		SettleDelay:  DefaultSettleDelay,
		LevelUpScore: DefaultLevelUpScore,
	}
}

// Validate reports the first parameter that would break the engine.
func (c Config) Validate() error {
	switch {
	case c.Rows < 2:
		return fmt.Errorf("%w: rows must be at least 2, got %d", ErrInvalidConfig, c.Rows)
	case c.Columns < 1:
		return fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidConfig, c.Columns)
	case len(c.Powers) == 0:
		return fmt.Errorf("%w: no powers configured", ErrInvalidConfig)
	case c.MinInterval <= 0:
		return fmt.Errorf("%w: min interval must be positive, got %v", ErrInvalidConfig, c.MinInterval)
	case c.InitInterval < c.MinInterval:
		return fmt.Errorf("%w: init interval %v below min interval %v", ErrInvalidConfig, c.InitInterval, c.MinInterval)
	case c.SpeedUp < 0:
		return fmt.Errorf("%w: negative speed-up %v", ErrInvalidConfig, c.SpeedUp)
	case c.SettleDelay < 0:
		return fmt.Errorf("%w: negative settle delay %v", ErrInvalidConfig, c.SettleDelay)
	case c.LevelUpScore < 0:
		return fmt.Errorf("%w: negative level-up score %d", ErrInvalidConfig, c.LevelUpScore)
	}

	prev := 1
	for _, p := range c.Powers {
		if p <= prev || p&(p-1) != 0 {
			return fmt.Errorf("%w: powers must be increasing powers of two, got %v", ErrInvalidConfig, c.Powers)
		}
		prev = p
	}
	return nil
}

// Ceiling returns the merge ceiling for a mode: twice its largest spawnable power.
func (c Config) Ceiling(mode int) int {
	if mode < 0 || mode >= len(c.Powers) {
		return 0
	}
	return c.Powers[mode] * 2
}
