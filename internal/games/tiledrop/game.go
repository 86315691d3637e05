// Package tiledrop adapts the tile-drop engine to the platform Game interface.
// Each configured mode is registered as its own game.
package tiledrop

import (
	"fmt"
	"sync"
	"time"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/tiledrop/internal/config"
	"github.com/vovakirdan/tiledrop/internal/core"
	tdcore "github.com/vovakirdan/tiledrop/internal/games/tiledrop/core"
	"github.com/vovakirdan/tiledrop/internal/registry"
)

// EventSink receives the events of every tick that produced any, together
// with the state they led to. Implementations must not block.
type EventSink interface {
	Publish(snap tdcore.Snapshot, events []tdcore.Event)
}

// Game implements registry.Game for one tile-drop mode.
type Game struct {
	cfg  config.TileDropConfig
	mode config.ModeConfig

	engine *tdcore.Engine
	err    error // engine construction failure, shown instead of the board

	sinkMu sync.Mutex // SetSink may be called from another goroutine
	sink   EventSink

	tick     uint64
	tickStep time.Duration

	// flashes maps tile IDs to the tick their highlight ends.
	flashes   *intmap.Map[uint64, uint64]
	markedRow int // row waiting to clear, -1 if none

	screenW int
	screenH int
	state   core.GameState
}

// New creates a game for one mode of the given configuration.
func New(cfg config.TileDropConfig, mode config.ModeConfig) *Game {
	return &Game{
		cfg:       cfg,
		mode:      mode,
		flashes:   intmap.New[uint64, uint64](64),
		markedRow: -1,
	}
}

var (
	modesMu    sync.Mutex
	registered []string
)

// RegisterModes registers one game per configured mode, replacing the modes
// registered by a previous call.
func RegisterModes(cfg config.TileDropConfig) {
	modesMu.Lock()
	defer modesMu.Unlock()

	for _, id := range registered {
		registry.Unregister(id)
	}
	registered = registered[:0]

	for _, m := range cfg.Modes {
		m := m
		registry.Register(registry.GameInfo{
			ID:          m.ID,
			Title:       m.Title,
			Description: describeMode(cfg, m),
		}, func() registry.Game {
			return New(cfg, m)
		})
		registered = append(registered, m.ID)
	}
}

func init() {
	RegisterModes(config.DefaultTileDropConfig())
}

func describeMode(cfg config.TileDropConfig, m config.ModeConfig) string {
	top := cfg.Powers[m.Index]
	return fmt.Sprintf("%dx%d board, tiles up to %d, merges up to %d", cfg.Grid.Columns, cfg.Grid.Rows, top, 2*top)
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.mode.ID
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.mode.Title
}

// SetSink attaches an event sink; nil detaches it.
func (g *Game) SetSink(s EventSink) {
	g.sinkMu.Lock()
	g.sink = s
	g.sinkMu.Unlock()
}

// Reset starts a new game with a fresh engine.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.tick = 0
	g.markedRow = -1
	g.flashes.Clear()

	rate := cfg.TickRate
	if rate <= 0 {
		rate = g.cfg.Display.TickRate
	}
	g.tickStep = time.Second / time.Duration(rate)

	g.engine, g.err = tdcore.NewEngine(g.cfg.EngineConfig(), cfg.Seed)
	if g.err == nil {
		g.err = g.engine.Init(g.mode.Index)
	}
	if g.err != nil {
		g.engine = nil
		g.state = core.GameState{GameOver: true}
		return
	}

	g.engine.Start()
	g.consume(g.engine.Events())
	g.updateState()
}

// Step maps one tick of input to engine commands and advances the engine clock.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.engine == nil {
		return core.StepResult{State: g.state}
	}
	g.tick++

	if in.Has(core.ActionPause) {
		g.engine.Pause()
	}

	// The engine accepts moves while paused; the player should not.
	if !g.engine.Paused() {
		if x, ok := in.TargetColumn(); ok {
			g.engine.ShiftTo(x)
		}
		if in.Has(core.ActionLeft) {
			g.engine.Shift(-1)
		}
		if in.Has(core.ActionRight) {
			g.engine.Shift(1)
		}
		if in.Has(core.ActionDrop) {
			g.engine.Drop()
		}
	}

	g.engine.Advance(g.tickStep)

	events := g.engine.Events()
	g.consume(events)
	g.updateState()

	return core.StepResult{State: g.state, Events: len(events)}
}

// consume updates presentation state from engine events and forwards them.
func (g *Game) consume(events []tdcore.Event) {
	if len(events) == 0 {
		return
	}

	flashLen := uint64(g.cfg.Display.FlashTicks)
	for _, ev := range events {
		for _, t := range ev.Removed {
			g.flashes.Del(t.ID)
		}
		switch ev.Kind {
		case tdcore.EventMerged:
			g.flashes.Put(ev.Tile.ID, g.tick+flashLen)
		case tdcore.EventSpawned:
			g.flashes.Put(ev.Tile.ID, g.tick+flashLen/2)
		case tdcore.EventRowMarked:
			g.markedRow = ev.Row
		case tdcore.EventRowCleared:
			g.markedRow = -1
		}
	}

	g.sinkMu.Lock()
	defer g.sinkMu.Unlock()
	if g.sink != nil {
		g.sink.Publish(g.engine.Snapshot(), events)
	}
}

// flashing reports whether the tile with the given ID is highlighted this tick.
func (g *Game) flashing(id uint64) bool {
	until, ok := g.flashes.Get(id)
	if !ok {
		return false
	}
	if g.tick >= until {
		g.flashes.Del(id)
		return false
	}
	return true
}

func (g *Game) updateState() {
	maxTile := 0
	for _, t := range g.engine.Tiles() {
		if t.Value > maxTile {
			maxTile = t.Value
		}
	}
	g.state = core.GameState{
		Score:    g.engine.Score(),
		Level:    g.engine.Level(),
		MaxTile:  maxTile,
		GameOver: g.engine.GameOver(),
		Paused:   g.engine.Paused(),
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return g.state
}

// Snapshot returns the engine state, or false before the first Reset.
func (g *Game) Snapshot() (tdcore.Snapshot, bool) {
	if g.engine == nil {
		return tdcore.Snapshot{}, false
	}
	return g.engine.Snapshot(), true
}

// Err returns the error that prevented the last Reset from starting a game.
func (g *Game) Err() error {
	return g.err
}
