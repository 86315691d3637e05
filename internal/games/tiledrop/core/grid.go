package core

import (
	"errors"
	"fmt"
)

// Grid holds the settled tiles as one stack per column.
// cells[x] is ordered bottom to top; once a cascade settles, the tile at
// index i sits at row i.
type Grid struct {
	rows    int
	columns int
	cells   [][]*Tile
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(rows, columns int) *Grid {
	g := &Grid{
		rows:    rows,
		columns: columns,
	}
	g.Init()
	return g
}

// Init empties every column.
func (g *Grid) Init() {
	g.cells = make([][]*Tile, g.columns)
	for x := range g.cells {
		g.cells[x] = make([]*Tile, 0, g.rows)
	}
}

// Rows returns the grid height.
func (g *Grid) Rows() int {
	return g.rows
}

// Columns returns the grid width.
func (g *Grid) Columns() int {
	return g.columns
}

// InBounds returns true if the coordinate is inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.columns && c.Y >= 0 && c.Y < g.rows
}

// At returns the settled tile at c, or nil.
func (g *Grid) At(c Coord) *Tile {
	if c.X < 0 || c.X >= g.columns {
		return nil
	}
	for _, t := range g.cells[c.X] {
		if t.Pos == c {
			return t
		}
	}
	return nil
}

// Fits reports whether t may occupy its current position.
// Only settled tiles are considered; the falling tile is never in cells.
func (g *Grid) Fits(t *Tile) bool {
	p := t.Pos
	if p.X < 0 || p.X >= g.columns {
		return false
	}
	if p.Y < 0 {
		return false
	}
	return g.At(p) == nil
}

// Place registers a landed tile on top of its column.
// Landing on an occupied cell or leaving a gap is a logic defect.
func (g *Grid) Place(t *Tile) {
	x := t.Pos.X
	if x < 0 || x >= g.columns {
		panic(fmt.Sprintf("grid: place %v outside columns", t.Pos))
	}
	if t.Pos.Y != len(g.cells[x]) {
		panic(fmt.Sprintf("grid: place %v on column of height %d", t.Pos, len(g.cells[x])))
	}
	g.cells[x] = append(g.cells[x], t)
}

// Height returns the number of settled tiles in column x.
func (g *Grid) Height(x int) int {
	if x < 0 || x >= g.columns {
		return 0
	}
	return len(g.cells[x])
}

// Column returns a copy of the values in column x, bottom to top.
func (g *Grid) Column(x int) []int {
	if x < 0 || x >= g.columns {
		return nil
	}
	values := make([]int, len(g.cells[x]))
	for i, t := range g.cells[x] {
		values[i] = t.Value
	}
	return values
}

// Values returns the values of every column, bottom to top.
func (g *Grid) Values() [][]int {
	out := make([][]int, g.columns)
	for x := range g.cells {
		out[x] = g.Column(x)
	}
	return out
}

// Tiles returns views of all settled tiles, column by column, bottom to top.
func (g *Grid) Tiles() []TileView {
	var views []TileView
	for _, col := range g.cells {
		for _, t := range col {
			views = append(views, t.View())
		}
	}
	return views
}

// Count returns the number of settled tiles.
func (g *Grid) Count() int {
	n := 0
	for _, col := range g.cells {
		n += len(col)
	}
	return n
}

// MaxValue returns the highest settled value, or 0 for an empty grid.
func (g *Grid) MaxValue() int {
	best := 0
	for _, col := range g.cells {
		for _, t := range col {
			if t.Value > best {
				best = t.Value
			}
		}
	}
	return best
}

// ErrCorrupt is wrapped by every Check failure.
var ErrCorrupt = errors.New("grid: invariant violated")

// Check verifies that no two tiles share a coordinate and that every column
// is gap-free: tile i of column x sits at (x, i).
func (g *Grid) Check() error {
	seen := make(map[Coord]uint64)
	for x, col := range g.cells {
		if len(col) > g.rows {
			return fmt.Errorf("%w: column %d holds %d tiles in %d rows", ErrCorrupt, x, len(col), g.rows)
		}
		for i, t := range col {
			if id, dup := seen[t.Pos]; dup {
				return fmt.Errorf("%w: tiles %d and %d share %v", ErrCorrupt, id, t.ID, t.Pos)
			}
			seen[t.Pos] = t.ID
			if t.Pos != C(x, i) {
				return fmt.Errorf("%w: tile %d at %v, expected %v", ErrCorrupt, t.ID, t.Pos, C(x, i))
			}
		}
	}
	return nil
}

// removeAt deletes the tile at index i of column x and drops every tile
// above it by one row.
func (g *Grid) removeAt(x, i int) *Tile {
	col := g.cells[x]
	removed := col[i]
	col = append(col[:i], col[i+1:]...)
	for j := i; j < len(col); j++ {
		col[j].Pos = col[j].Pos.Plus(Gravity)
	}
	g.cells[x] = col
	return removed
}

// mergeAt replaces the pair at indexes i-1 and i of column x with merged,
// positioned at the lower slot, and drops the tiles above by one row.
// The tiles above are returned so callers can report the collapse.
func (g *Grid) mergeAt(x, i int, merged *Tile) (lower, upper *Tile, shifted []*Tile) {
	col := g.cells[x]
	lower, upper = col[i-1], col[i]
	merged.Pos = C(x, i-1)
	col[i-1] = merged
	col = append(col[:i], col[i+1:]...)
	for j := i; j < len(col); j++ {
		col[j].Pos = col[j].Pos.Plus(Gravity)
		shifted = append(shifted, col[j])
	}
	g.cells[x] = col
	return lower, upper, shifted
}

// completeRow returns the lowest row where every column holds a tile and all
// of them share one value.
func (g *Grid) completeRow() (row, value int, ok bool) {
	for y := 0; y < g.rows; y++ {
		value = 0
		ok = true
		for x := 0; x < g.columns; x++ {
			if y >= len(g.cells[x]) {
				ok = false
				break
			}
			v := g.cells[x][y].Value
			if x == 0 {
				value = v
			} else if v != value {
				ok = false
				break
			}
		}
		if ok {
			return y, value, true
		}
	}
	return 0, 0, false
}
