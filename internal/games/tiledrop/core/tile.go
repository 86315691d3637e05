package core

// Tile is a single power-of-two block.
// Position is plain data; renderers learn about moves through events.
type Tile struct {
	ID    uint64
	Value int
	Pos   Coord
}

// TileView is an immutable copy of a tile handed to renderers.
type TileView struct {
	ID    uint64 `json:"id"`
	Value int    `json:"value"`
	Pos   Coord  `json:"pos"`
}

// View returns a copy of the tile for external consumers.
func (t *Tile) View() TileView {
	return TileView{ID: t.ID, Value: t.Value, Pos: t.Pos}
}

// SpawnCoord returns the default spawn position: the middle column of the top row.
func SpawnCoord(rows, columns int) Coord {
	return C(columns/2, rows-1)
}
