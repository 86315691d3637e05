package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tiledrop/internal/core"
	"github.com/vovakirdan/tiledrop/internal/registry"
	"github.com/vovakirdan/tiledrop/internal/storage"
)

// Options carry per-session details that are not part of the game itself.
type Options struct {
	Player     string      // recorded with saved runs
	Difficulty string      // preset name recorded with saved runs
	Logger     *log.Logger // nil disables logging
	AllowBack  bool        // B/Esc on game over or pause returns to the menu

	// Attach, if set, is called once per game model and returns a function
	// that is called when the model is left. Used to stream games to spectators.
	Attach func(g registry.Game) (detach func())
}

// Model is the Bubble Tea model for running one game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	opts       Options
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether the run has been saved for the current game over
	detach     func()
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		opts:       opts,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
	if opts.Attach != nil {
		if detach := opts.Attach(game); detach != nil {
			// Copies of the model share the hook, so it must run once overall.
			m.detach = sync.OnceFunc(detach)
		}
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.logf(log.DebugLevel, "game started", "game", m.game.ID(), "seed", m.config.Seed)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The board is laid out on every render, so a resize keeps the game.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.opts.AllowBack && (m.gameState.GameOver || m.gameState.Paused) &&
		m.keyMapper.MapKeyToMenuAction(msg) == MenuActionBack {
		m.backToMenu = true
		m.release()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		m.release()
		return m, tea.Quit
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		// Reset seed for new game
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveRun()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveRun records the finished game. Empty games are not stored.
func (m *Model) saveRun() {
	st := m.gameState
	m.logf(log.InfoLevel, "game over", "game", m.game.ID(), "score", st.Score, "level", st.Level, "max_tile", st.MaxTile)

	if m.store == nil || st.Score == 0 {
		return
	}
	_, err := m.store.SaveRun(storage.Run{
		GameID:     m.game.ID(),
		Player:     m.opts.Player,
		Difficulty: m.opts.Difficulty,
		Score:      st.Score,
		Level:      st.Level,
		MaxTile:    st.MaxTile,
	})
	if err != nil {
		m.logf(log.WarnLevel, "could not save run", "error", err)
	}
}

func (m *Model) release() {
	if m.detach != nil {
		m.detach()
	}
}

// Release runs the detach hook if the model was left without quitting,
// for example when the session's connection dropped.
func (m *Model) Release() {
	m.release()
}

func (m *Model) logf(level log.Level, msg string, keyvals ...any) {
	if m.opts.Logger != nil {
		m.opts.Logger.Log(level, msg, keyvals...)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logf(log.WarnLevel, "could not save screenshot", "error", err)
		return
	}
	dir := filepath.Join(home, ".tiledrop", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logf(log.WarnLevel, "could not save screenshot", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logf(log.WarnLevel, "could not save screenshot", "error", err)
		return
	}
	m.logf(log.InfoLevel, "screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// State returns the game state as of the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(game, store, cfg, opts)
	defer model.Release()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
