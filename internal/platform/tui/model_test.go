package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tiledrop/internal/core"
	"github.com/vovakirdan/tiledrop/internal/registry"
	"github.com/vovakirdan/tiledrop/internal/storage"
)

// scriptedGame ends after a fixed number of steps and records its inputs.
type scriptedGame struct {
	steps  int
	endAt  int
	inputs []core.InputFrame
	resets int
}

func (g *scriptedGame) ID() string    { return "scripted" }
func (g *scriptedGame) Title() string { return "Scripted" }

func (g *scriptedGame) Reset(core.RuntimeConfig) {
	g.steps = 0
	g.resets++
}

func (g *scriptedGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	cp := core.NewInputFrame()
	for a := range in.Actions {
		cp.Set(a)
	}
	g.inputs = append(g.inputs, cp)
	return core.StepResult{State: g.State()}
}

func (g *scriptedGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "scripted")
}

func (g *scriptedGame) State() core.GameState {
	return core.GameState{
		Score:    g.steps * 10,
		Level:    2,
		MaxTile:  64,
		GameOver: g.steps >= g.endAt,
	}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(TickMsg{})
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

var _ registry.Game = (*scriptedGame)(nil)

func TestModelForwardsInput(t *testing.T) {
	g := &scriptedGame{endAt: 100}
	m := NewModel(g, nil, core.DefaultConfig(), Options{})
	m.Init()

	m = press(t, m, runeKey('4'))
	m = press(t, m, runeKey(' '))
	m = tick(t, m)

	require.Len(t, g.inputs, 1)
	x, ok := g.inputs[0].TargetColumn()
	assert.True(t, ok)
	assert.Equal(t, 3, x)
	assert.True(t, g.inputs[0].Has(core.ActionDrop))

	m = tick(t, m)
	assert.Empty(t, g.inputs[1].Actions, "input cleared between ticks")
	assert.Contains(t, m.View(), "scripted")
}

func TestModelSavesRunOnce(t *testing.T) {
	store := openStore(t)
	g := &scriptedGame{endAt: 3}
	m := NewModel(g, store, core.DefaultConfig(), Options{Player: "ana", Difficulty: "hard"})
	m.Init()

	for i := 0; i < 5; i++ {
		m = tick(t, m)
	}
	assert.True(t, m.State().GameOver)

	runs, err := store.TopScores("scripted", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "ana", runs[0].Player)
	assert.Equal(t, "hard", runs[0].Difficulty)
	assert.Equal(t, 2, runs[0].Level)
	assert.Equal(t, 64, runs[0].MaxTile)
	assert.NotEmpty(t, runs[0].RunID)
}

func TestModelRestart(t *testing.T) {
	g := &scriptedGame{endAt: 1}
	m := NewModel(g, nil, core.DefaultConfig(), Options{})
	m.Init()

	m = tick(t, m)
	require.True(t, m.State().GameOver)

	m = press(t, m, runeKey('r'))
	m = tick(t, m)
	assert.Equal(t, 2, g.resets)
	assert.False(t, m.State().GameOver)
}

func TestModelBackToMenu(t *testing.T) {
	g := &scriptedGame{endAt: 1}

	m := NewModel(g, nil, core.DefaultConfig(), Options{})
	m.Init()
	m = tick(t, m)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.BackToMenu(), "standalone play has no menu")

	m = NewModel(g, nil, core.DefaultConfig(), Options{AllowBack: true})
	m.Init()
	m = tick(t, m)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, m.BackToMenu())
}

func TestModelQuit(t *testing.T) {
	m := NewModel(&scriptedGame{endAt: 10}, nil, core.DefaultConfig(), Options{})
	m.Init()
	m = press(t, m, runeKey('q'))
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())
}
