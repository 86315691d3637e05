package core

import (
	"errors"
	"reflect"
	"testing"
)

// fill builds a grid from bottom-to-top column values.
func fill(rows, columns int, values ...[]int) *Grid {
	g := NewGrid(rows, columns)
	var id uint64
	for x, col := range values {
		for y, v := range col {
			id++
			g.Place(&Tile{ID: id, Value: v, Pos: C(x, y)})
		}
	}
	return g
}

func TestGridFits(t *testing.T) {
	g := fill(4, 3, []int{2}, nil, []int{4, 8})

	tests := []struct {
		name string
		pos  Coord
		want bool
	}{
		{"empty cell", C(1, 0), true},
		{"above stack", C(0, 1), true},
		{"occupied", C(0, 0), false},
		{"occupied upper", C(2, 1), false},
		{"left of grid", C(-1, 2), false},
		{"right of grid", C(3, 2), false},
		{"below floor", C(1, -1), false},
		{"top row", C(1, 3), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := &Tile{Value: 2, Pos: tt.pos}
			if got := g.Fits(tile); got != tt.want {
				t.Errorf("Fits(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestGridInit(t *testing.T) {
	g := fill(4, 3, []int{2, 4}, []int{8})
	g.Init()

	if g.Count() != 0 {
		t.Errorf("got %d tiles after Init, want 0", g.Count())
	}
	for x := 0; x < g.Columns(); x++ {
		if g.Height(x) != 0 {
			t.Errorf("column %d height = %d, want 0", x, g.Height(x))
		}
	}
}

func TestGridPlaceRejectsGap(t *testing.T) {
	g := NewGrid(4, 3)
	defer func() {
		if recover() == nil {
			t.Error("expected panic when placing above a gap")
		}
	}()
	g.Place(&Tile{Value: 2, Pos: C(0, 1)})
}

func TestGridCheck(t *testing.T) {
	g := fill(4, 3, []int{2, 4}, []int{8})
	if err := g.Check(); err != nil {
		t.Fatalf("Check() on valid grid = %v", err)
	}

	// Two tiles claiming one coordinate.
	g.cells[1] = append(g.cells[1], &Tile{ID: 99, Value: 2, Pos: C(1, 0)})
	if err := g.Check(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Check() with duplicate = %v, want ErrCorrupt", err)
	}

	// A gap in a column.
	g = fill(4, 3, []int{2, 4})
	g.cells[0][1].Pos = C(0, 2)
	if err := g.Check(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Check() with gap = %v, want ErrCorrupt", err)
	}
}

func TestGridRemoveAt(t *testing.T) {
	g := fill(5, 1, []int{2, 4, 8, 16})

	removed := g.removeAt(0, 1)
	if removed.Value != 4 {
		t.Errorf("removed value = %d, want 4", removed.Value)
	}
	if got, want := g.Column(0), []int{2, 8, 16}; !reflect.DeepEqual(got, want) {
		t.Errorf("column = %v, want %v", got, want)
	}
	if err := g.Check(); err != nil {
		t.Errorf("Check() after removeAt = %v", err)
	}
}

func TestGridMergeAt(t *testing.T) {
	g := fill(5, 1, []int{8, 2, 2, 4})

	merged := &Tile{ID: 100, Value: 4}
	lower, upper, shifted := g.mergeAt(0, 2, merged)

	if lower.Value != 2 || upper.Value != 2 {
		t.Errorf("merged pair = %d,%d, want 2,2", lower.Value, upper.Value)
	}
	if merged.Pos != C(0, 1) {
		t.Errorf("merged tile at %v, want (0,1)", merged.Pos)
	}
	if len(shifted) != 1 || shifted[0].Pos != C(0, 2) {
		t.Errorf("shifted = %v, want one tile at (0,2)", shifted)
	}
	if got, want := g.Column(0), []int{8, 4, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("column = %v, want %v", got, want)
	}
	if err := g.Check(); err != nil {
		t.Errorf("Check() after mergeAt = %v", err)
	}
}

func TestGridCompleteRow(t *testing.T) {
	tests := []struct {
		name    string
		columns [][]int
		row     int
		value   int
		ok      bool
	}{
		{
			name:    "bottom row equal",
			columns: [][]int{{8}, {8}, {8}},
			row:     0, value: 8, ok: true,
		},
		{
			name:    "missing column",
			columns: [][]int{{8}, {8}, nil},
			ok:      false,
		},
		{
			name:    "values differ",
			columns: [][]int{{8}, {4}, {8}},
			ok:      false,
		},
		{
			name:    "lowest of two",
			columns: [][]int{{8, 16}, {8, 16}, {8, 16}},
			row:     0, value: 8, ok: true,
		},
		{
			name:    "second row only",
			columns: [][]int{{2, 4}, {8, 4}, {2, 4}},
			row:     1, value: 4, ok: true,
		},
		{
			name:    "empty grid",
			columns: nil,
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := fill(4, 3, tt.columns...)
			row, value, ok := g.completeRow()
			if ok != tt.ok {
				t.Fatalf("completeRow() ok = %v, want %v", ok, tt.ok)
			}
			if ok && (row != tt.row || value != tt.value) {
				t.Errorf("completeRow() = row %d value %d, want row %d value %d", row, value, tt.row, tt.value)
			}
		})
	}
}

func TestSpawnCoord(t *testing.T) {
	if got := SpawnCoord(10, 6); got != C(3, 9) {
		t.Errorf("SpawnCoord(10, 6) = %v, want (3,9)", got)
	}
	if got := SpawnCoord(4, 5); got != C(2, 3) {
		t.Errorf("SpawnCoord(4, 5) = %v, want (2,3)", got)
	}
}

func TestCoordArithmetic(t *testing.T) {
	c := C(2, 3)
	if got := c.Plus(Gravity); got != C(2, 2) {
		t.Errorf("Plus(Gravity) = %v, want (2,2)", got)
	}
	if got := c.Minus(Gravity); got != C(2, 4) {
		t.Errorf("Minus(Gravity) = %v, want (2,4)", got)
	}
	if c != C(2, 3) {
		t.Errorf("receiver mutated to %v", c)
	}
}
