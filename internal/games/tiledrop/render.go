package tiledrop

import (
	"fmt"
	"strconv"

	"github.com/vovakirdan/tiledrop/internal/core"
	tdcore "github.com/vovakirdan/tiledrop/internal/games/tiledrop/core"
)

const (
	sidebarWidth = 14
	sidebarGap   = 2
	hudHeight    = 2
)

// valueColors cycles through the board palette by exponent: 2 is index 0.
var valueColors = []core.Color{
	core.ColorWhite,
	core.ColorYellow,
	core.ColorOrange,
	core.ColorRed,
	core.ColorPink,
	core.ColorMagenta,
	core.ColorPurple,
	core.ColorBlue,
	core.ColorCyan,
	core.ColorTeal,
	core.ColorGreen,
	core.ColorGold,
}

// ValueColor returns the display color of a tile value.
func ValueColor(v int) core.Color {
	if v < 2 {
		return core.ColorDefault
	}
	exp := 0
	for v > 2 {
		v >>= 1
		exp++
	}
	return valueColors[exp%len(valueColors)]
}

// layout holds the computed screen positions for one frame.
type layout struct {
	board   core.Rect
	sidebar core.Rect
	cellW   int
}

func (g *Game) layout(screenW, screenH int) (layout, bool) {
	cfg := g.engine.Config()
	cellW := g.cfg.Display.CellWidth
	boardW := cfg.Columns*cellW + 2
	boardH := cfg.Rows + 2

	totalW := boardW + sidebarGap + sidebarWidth
	if totalW > screenW || boardH+hudHeight > screenH {
		return layout{}, false
	}

	x := (screenW - totalW) / 2
	y := hudHeight + (screenH-hudHeight-boardH)/2
	return layout{
		board:   core.NewRect(x, y, boardW, boardH),
		sidebar: core.NewRect(x+boardW+sidebarGap, y, sidebarWidth, boardH),
		cellW:   cellW,
	}, true
}

// Render draws the board, the sidebar and any overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.engine == nil {
		dst.DrawTextCentered(dst.Height()/2, "Cannot start game", core.ColorRed)
		if g.err != nil {
			dst.DrawTextCentered(dst.Height()/2+1, g.err.Error(), core.ColorGray)
		}
		return
	}

	l, ok := g.layout(dst.Width(), dst.Height())
	if !ok {
		g.renderTooSmall(dst)
		return
	}

	dst.DrawTextCentered(0, g.mode.Title, core.ColorBrightWhite)

	g.renderBoard(dst, l)
	g.renderSidebar(dst, l)
	g.renderOverlay(dst, l)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorGray)
}

// screenPos maps a grid coordinate to the top-left screen cell of its tile.
// Row 0 is the bottom of the board.
func (l layout) screenPos(c tdcore.Coord, rows int) (int, int) {
	return l.board.X + 1 + c.X*l.cellW, l.board.Y + rows - c.Y
}

func (g *Game) renderBoard(dst *core.Screen, l layout) {
	rows := g.engine.Config().Rows
	dst.DrawBox(l.board, core.ColorGray)

	if g.markedRow >= 0 {
		_, y := l.screenPos(tdcore.C(0, g.markedRow), rows)
		inner := core.NewRect(l.board.X+1, y, l.board.W-2, 1)
		dst.DrawRect(inner, '░', core.ColorBrightWhite)
	}

	// Guide under the falling tile.
	f, falling := g.engine.Falling()
	if falling && !g.engine.GameOver() {
		height := len(g.engine.Columns()[f.Pos.X])
		for y := f.Pos.Y - 1; y >= height; y-- {
			sx, sy := l.screenPos(tdcore.C(f.Pos.X, y), rows)
			dst.SetColor(sx+l.cellW/2, sy, '·', core.ColorGray)
		}
	}

	for _, t := range g.engine.Tiles() {
		g.drawTile(dst, l, rows, t, g.flashing(t.ID))
	}
	if falling {
		g.drawTile(dst, l, rows, f, false)
	}
}

func (g *Game) drawTile(dst *core.Screen, l layout, rows int, t tdcore.TileView, flash bool) {
	x, y := l.screenPos(t.Pos, rows)
	c := ValueColor(t.Value)
	if flash {
		c = core.ColorBrightWhite
	}

	label := strconv.Itoa(t.Value)
	if len(label) > l.cellW-2 {
		label = compact(t.Value)
	}
	dst.SetColor(x, y, '[', c)
	dst.SetColor(x+l.cellW-1, y, ']', c)
	pad := (l.cellW - len(label)) / 2
	dst.DrawTextColor(x+pad, y, label, c)
}

// compact shortens large values so they fit narrow cells: 4096 becomes 4k.
func compact(v int) string {
	if v >= 1024 && v%1024 == 0 {
		return strconv.Itoa(v/1024) + "k"
	}
	return strconv.Itoa(v)
}

func (g *Game) renderSidebar(dst *core.Screen, l layout) {
	x, y := l.sidebar.X, l.sidebar.Y
	st := g.state

	dst.DrawTextColor(x, y, "SCORE", core.ColorGray)
	dst.DrawTextColor(x, y+1, strconv.Itoa(st.Score), core.ColorBrightWhite)

	dst.DrawTextColor(x, y+3, "LEVEL", core.ColorGray)
	dst.DrawTextColor(x, y+4, strconv.Itoa(st.Level), core.ColorBrightWhite)

	row := y + 6
	if g.cfg.Display.ShowPreview {
		next := g.engine.Preview()
		dst.DrawTextColor(x, row, "NEXT", core.ColorGray)
		if next > 0 {
			dst.DrawTextColor(x, row+1, "["+strconv.Itoa(next)+"]", ValueColor(next))
		}
		row += 3
	}

	dst.DrawTextColor(x, row, "MAX", core.ColorGray)
	dst.DrawTextColor(x, row+1, strconv.Itoa(g.engine.Max()), ValueColor(g.engine.Max()))

	if row+3 < l.sidebar.Bottom() {
		ms := g.engine.Interval().Milliseconds()
		dst.DrawTextColor(x, row+3, fmt.Sprintf("%dms/row", ms), core.ColorGray)
	}
}

func (g *Game) renderOverlay(dst *core.Screen, l layout) {
	switch {
	case g.engine.GameOver():
		g.drawOverlay(dst, l,
			"GAME OVER",
			fmt.Sprintf("Score: %d", g.state.Score),
			"Press R to restart")
	case g.engine.Paused():
		g.drawOverlay(dst, l, "PAUSED", "Press P to resume")
	}
}

// drawOverlay draws a framed message centered on the board.
func (g *Game) drawOverlay(dst *core.Screen, l layout, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = core.Max(maxLen, len(line))
	}

	w := maxLen + 4
	h := len(lines) + 2
	r := core.NewRect(l.board.X+(l.board.W-w)/2, l.board.Y+(l.board.H-h)/2, w, h)

	dst.DrawRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, core.ColorBrightWhite)
	for i, line := range lines {
		dst.DrawTextColor(r.X+(w-len(line))/2, r.Y+1+i, line, core.ColorBrightWhite)
	}
}
