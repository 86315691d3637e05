// Package config provides YAML-based game configuration loading and
// difficulty presets for the tiledrop platform.
package config

import (
	"errors"
	"fmt"
	"time"

	tdcore "github.com/vovakirdan/tiledrop/internal/games/tiledrop/core"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// TileDropConfig contains all configuration for the tile-drop game.
type TileDropConfig struct {
	Grid        GridConfig        `yaml:"grid"`
	Timing      TimingConfig      `yaml:"timing"`
	Progression ProgressionConfig `yaml:"progression"`
	Powers      []int             `yaml:"powers"`
	Modes       []ModeConfig      `yaml:"modes"`
	Display     DisplayConfig     `yaml:"display"`
}

// GridConfig defines the board dimensions.
type GridConfig struct {
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`
}

// TimingConfig defines gravity and cascade timing.
type TimingConfig struct {
	InitInterval time.Duration `yaml:"init_interval"` // gravity period at level 1
	SpeedUp      time.Duration `yaml:"speed_up"`      // interval reduction per level
	MinInterval  time.Duration `yaml:"min_interval"`
	SettleDelay  time.Duration `yaml:"settle_delay"` // gap between cascade steps
}

// ProgressionConfig defines how levels are earned.
type ProgressionConfig struct {
	Enabled      bool `yaml:"enabled"`
	LevelUpScore int  `yaml:"level_up_score"` // score step between levels
}

// ModeConfig names one selectable mode. Index picks the largest spawnable
// power from Powers; the merge ceiling is twice that power.
type ModeConfig struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Index int    `yaml:"index"`
}

// DisplayConfig defines presentation parameters for the terminal renderer.
type DisplayConfig struct {
	CellWidth   int  `yaml:"cell_width"`  // characters per grid column
	FlashTicks  int  `yaml:"flash_ticks"` // how long merged tiles stay highlighted
	TickRate    int  `yaml:"tick_rate"`   // simulation ticks per second
	ShowPreview bool `yaml:"show_preview"`
}

// Mode returns the mode with the given ID.
func (c TileDropConfig) Mode(id string) (ModeConfig, bool) {
	for _, m := range c.Modes {
		if m.ID == id {
			return m, true
		}
	}
	return ModeConfig{}, false
}

// EngineConfig converts the YAML configuration into engine parameters.
func (c TileDropConfig) EngineConfig() tdcore.Config {
	levelUp := c.Progression.LevelUpScore
	if !c.Progression.Enabled {
		levelUp = 0
	}
	return tdcore.Config{
		Rows:         c.Grid.Rows,
		Columns:      c.Grid.Columns,
		Powers:       append([]int(nil), c.Powers...),
		InitInterval: c.Timing.InitInterval,
		SpeedUp:      c.Timing.SpeedUp,
		MinInterval:  c.Timing.MinInterval,
		SettleDelay:  c.Timing.SettleDelay,
		LevelUpScore: levelUp,
	}
}

// Validate reports the first problem that would make the configuration unplayable.
func (c TileDropConfig) Validate() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if len(c.Modes) == 0 {
		return fmt.Errorf("%w: no modes configured", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Modes))
	for _, m := range c.Modes {
		if m.ID == "" {
			return fmt.Errorf("%w: mode with empty id", ErrInvalid)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate mode %q", ErrInvalid, m.ID)
		}
		seen[m.ID] = true
		if m.Index < 0 || m.Index >= len(c.Powers) {
			return fmt.Errorf("%w: mode %q index %d outside powers 0..%d", ErrInvalid, m.ID, m.Index, len(c.Powers)-1)
		}
	}

	if c.Display.CellWidth < 3 {
		return fmt.Errorf("%w: cell width must be at least 3, got %d", ErrInvalid, c.Display.CellWidth)
	}
	if c.Display.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate must be positive, got %d", ErrInvalid, c.Display.TickRate)
	}
	if c.Display.FlashTicks < 0 {
		return fmt.Errorf("%w: negative flash ticks %d", ErrInvalid, c.Display.FlashTicks)
	}
	return nil
}
