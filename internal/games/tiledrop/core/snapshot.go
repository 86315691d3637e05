package core

import "time"

// Snapshot is a read-only copy of the engine state for renderers and spectators.
type Snapshot struct {
	Phase      Phase         `json:"phase"`
	Rows       int           `json:"rows"`
	Columns    int           `json:"columns"`
	Mode       int           `json:"mode"`
	Max        int           `json:"max"`
	Available  []int         `json:"available"`
	Score      int           `json:"score"`
	Level      int           `json:"level"`
	Interval   time.Duration `json:"interval"`
	Preview    int           `json:"preview"`
	Falling    *TileView     `json:"falling,omitempty"`
	Tiles      []TileView    `json:"tiles"`
	Processing bool          `json:"processing"`
	Paused     bool          `json:"paused"`
	GameOver   bool          `json:"game_over"`
	Now        time.Duration `json:"now"`
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Phase:      e.Phase(),
		Rows:       e.cfg.Rows,
		Columns:    e.cfg.Columns,
		Mode:       e.mode,
		Max:        e.max,
		Available:  e.Available(),
		Score:      e.score,
		Level:      e.level,
		Interval:   e.interval,
		Preview:    e.preview,
		Tiles:      e.grid.Tiles(),
		Processing: e.processing,
		Paused:     e.paused,
		GameOver:   e.gameOver,
		Now:        e.now,
	}
	if e.falling != nil {
		s.Falling = viewPtr(e.falling)
	}
	return s
}
