package core

import (
	"fmt"
	"time"
)

// EventKind identifies an externally observable engine effect.
type EventKind int

const (
	EventSpawned     EventKind = iota // a new falling tile appeared
	EventShifted                      // the falling tile moved sideways
	EventFell                         // the falling tile moved down one row
	EventLanded                       // the falling tile settled into the grid
	EventMerged                       // two tiles became one
	EventRowMarked                    // a complete row was found and will clear
	EventRowCleared                   // a marked row was removed
	EventCollapsed                    // settled tiles dropped to close a gap
	EventLevelUp                      // level increased, interval shortened
	EventPaused                       // gravity timer stopped by the player
	EventResumed                      // gravity timer restarted by the player
	EventCascadeDone                  // the cascade finished; commands accepted again
	EventGameOver                     // terminal state reached
)

var eventNames = map[EventKind]string{
	EventSpawned:     "spawned",
	EventShifted:     "shifted",
	EventFell:        "fell",
	EventLanded:      "landed",
	EventMerged:      "merged",
	EventRowMarked:   "row_marked",
	EventRowCleared:  "row_cleared",
	EventCollapsed:   "collapsed",
	EventLevelUp:     "level_up",
	EventPaused:      "paused",
	EventResumed:     "resumed",
	EventCascadeDone: "cascade_done",
	EventGameOver:    "game_over",
}

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the kind by name so JSON consumers see "merged" rather than 4.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind from its wire name.
func (k *EventKind) UnmarshalText(text []byte) error {
	for kind, name := range eventNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("tiledrop: unknown event kind %q", text)
}

// Event records one observable change.
// Fields not relevant to the kind are left zero.
type Event struct {
	Kind    EventKind     `json:"kind"`
	At      time.Duration `json:"at"`
	Tile    *TileView     `json:"tile,omitempty"`    // spawned/moved/landed/merged result
	From    *Coord        `json:"from,omitempty"`    // previous position for moves
	Removed []TileView    `json:"removed,omitempty"` // tiles destroyed by a merge or clear
	Moved   []TileView    `json:"moved,omitempty"`   // tiles shifted down by a collapse
	Row     int           `json:"row,omitempty"`
	Value   int           `json:"value,omitempty"`
	Score   int           `json:"score"`
	Level   int           `json:"level,omitempty"`
}

func viewPtr(t *Tile) *TileView {
	v := t.View()
	return &v
}

func views(tiles []*Tile) []TileView {
	if len(tiles) == 0 {
		return nil
	}
	out := make([]TileView, len(tiles))
	for i, t := range tiles {
		out[i] = t.View()
	}
	return out
}
