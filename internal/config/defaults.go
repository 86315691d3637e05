package config

import (
	_ "embed"

	tdcore "github.com/vovakirdan/tiledrop/internal/games/tiledrop/core"
)

//go:embed defaults/tiledrop.yaml
var defaultTileDropYAML []byte

// DefaultTileDropConfig returns the built-in configuration: the classic 10x6
// board with three modes.
func DefaultTileDropConfig() TileDropConfig {
	return TileDropConfig{
		Grid: GridConfig{
			Rows:    tdcore.DefaultRows,
			Columns: tdcore.DefaultColumns,
		},
		Timing: TimingConfig{
			InitInterval: tdcore.DefaultInitInterval,
			SpeedUp:      tdcore.DefaultSpeedUp,
			MinInterval:  tdcore.DefaultMinInterval,
			SettleDelay:  tdcore.DefaultSettleDelay,
		},
		Progression: ProgressionConfig{
			Enabled:      true,
			LevelUpScore: tdcore.DefaultLevelUpScore,
		},
		Powers: append([]int(nil), tdcore.Powers...),
		Modes: []ModeConfig{
			{ID: "tiledrop_easy", Title: "Tile Drop (Easy)", Index: 3},
			{ID: "tiledrop", Title: "Tile Drop", Index: 5},
			{ID: "tiledrop_hard", Title: "Tile Drop (Hard)", Index: 7},
		},
		Display: DisplayConfig{
			CellWidth:   6,
			FlashTicks:  6,
			TickRate:    30,
			ShowPreview: true,
		},
	}
}
