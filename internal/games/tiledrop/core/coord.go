package core

import "fmt"

// Coord is a (column, row) position on the grid.
// X increases to the right, Y increases upward: row 0 is the bottom.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// Gravity is the one-row downward step applied by ticks and drops.
var Gravity = Coord{X: 0, Y: -1}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Plus returns the sum of two coordinates.
func (c Coord) Plus(other Coord) Coord {
	return Coord{X: c.X + other.X, Y: c.Y + other.Y}
}

// Minus returns the difference of two coordinates.
func (c Coord) Minus(other Coord) Coord {
	return Coord{X: c.X - other.X, Y: c.Y - other.Y}
}
