package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tiledrop/internal/core"
	"github.com/vovakirdan/tiledrop/internal/registry"
	"github.com/vovakirdan/tiledrop/internal/storage"
)

func registerScripted(t *testing.T, ids ...string) {
	t.Helper()
	for _, id := range ids {
		registry.Register(registry.GameInfo{ID: id, Title: "Mode " + id, Description: "about " + id},
			func() registry.Game { return &scriptedGame{endAt: 1} })
	}
	t.Cleanup(func() {
		for _, id := range ids {
			registry.Unregister(id)
		}
	})
}

func menuKey(t *testing.T, m MenuModel, msg tea.KeyMsg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(MenuModel)
	require.True(t, ok)
	return model
}

func TestMenuListsRegisteredModes(t *testing.T) {
	registerScripted(t, "zz_menu_a", "zz_menu_b")

	store := openStore(t)
	_, err := store.SaveRun(storage.Run{GameID: "zz_menu_b", Score: 512})
	require.NoError(t, err)

	m := NewMenuModel(store, core.DefaultConfig())
	var last MenuItem
	for _, item := range m.items {
		if item.GameID == "zz_menu_b" {
			last = item
		}
	}
	assert.Equal(t, 512, last.Best)
	assert.Equal(t, "about zz_menu_b", last.Description)
	assert.Contains(t, m.View(), "Mode zz_menu_a")
}

func TestMenuNavigation(t *testing.T) {
	registerScripted(t, "zz_nav_a", "zz_nav_b")

	m := NewMenuModel(nil, core.DefaultConfig())
	n := len(m.items)
	require.GreaterOrEqual(t, n, 2)

	m = menuKey(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor, "cursor clamps at the top")

	for i := 0; i < n+2; i++ {
		m = menuKey(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, n-1, m.cursor, "cursor clamps at the bottom")

	m = menuKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.Selected())
	assert.Equal(t, m.items[n-1].GameID, m.Selected().GameID)
}

func TestMenuDigitSelects(t *testing.T) {
	registerScripted(t, "zz_digit_a", "zz_digit_b")

	m := NewMenuModel(nil, core.DefaultConfig())
	m = menuKey(t, m, runeKey('2'))
	require.NotNil(t, m.Selected())
	assert.Equal(t, m.items[1].GameID, m.Selected().GameID)
}

func TestMenuScoreboardAndQuit(t *testing.T) {
	m := NewMenuModel(nil, core.DefaultConfig())
	m = menuKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.WantsScoreboard())

	m = NewMenuModel(nil, core.DefaultConfig())
	m = menuKey(t, m, runeKey('q'))
	assert.True(t, m.IsQuitting())
}
