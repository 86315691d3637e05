package core

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrInvalidMode is returned by Init for a mode outside the configured powers.
var ErrInvalidMode = errors.New("tiledrop: invalid mode")

// Phase is the lifecycle state of an engine.
type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseReady         Phase = "ready"
	PhaseRunning       Phase = "running"
	PhasePaused        Phase = "paused"
	PhaseCascading     Phase = "cascading"
	PhaseGameOver      Phase = "game_over"
)

// Engine owns the grid, the falling tile and the session state, and resolves
// landings into cascades.
//
// Time is virtual: the host calls Advance and the engine runs gravity ticks
// and queued cascade actions whose due time has been reached. Engine is not
// safe for concurrent use.
type Engine struct {
	cfg   Config
	grid  *Grid
	rng   *rand.Rand
	sched Scheduler
	cas   cascade

	mode      int
	available []int
	max       int
	level     int
	score     int
	interval  time.Duration

	falling *Tile
	preview int
	nextID  uint64

	initialized bool
	started     bool
	processing  bool
	paused      bool
	gameOver    bool

	now      time.Duration
	timerOn  bool
	nextTick time.Duration

	events []Event
}

// NewEngine creates an engine in the Uninitialized state.
func NewEngine(cfg Config, seed int64) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:  cfg,
		grid: NewGrid(cfg.Rows, cfg.Columns),
		rng:  rand.New(rand.NewSource(seed)),
	}, nil
}

// Init resets every piece of session state for a new game in the given mode.
// Cascade actions still pending from a previous game are cancelled first.
func (e *Engine) Init(mode int) error {
	if mode < 0 || mode >= len(e.cfg.Powers) {
		return fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidMode, mode, len(e.cfg.Powers)-1)
	}

	e.sched.Reset()
	e.cas = cascade{}
	e.stopTimer()

	e.mode = mode
	e.max = e.cfg.Ceiling(mode)
	e.available = append([]int(nil), e.cfg.Powers[:mode+1]...)
	e.level = 1
	e.score = 0
	e.interval = e.cfg.InitInterval

	e.grid.Init()
	e.falling = nil
	e.preview = 0

	e.initialized = true
	e.started = false
	e.processing = false
	e.paused = false
	e.gameOver = false
	e.events = nil
	return nil
}

// Start spawns the first tile and starts the gravity timer.
// Returns false if the engine is not in the Ready state.
func (e *Engine) Start() bool {
	if !e.initialized || e.started || e.gameOver {
		return false
	}
	e.started = true
	if e.falling == nil {
		e.spawn()
	}
	e.startTimer()
	return true
}

// Pause toggles between Running and Paused.
// Pausing never cancels a cascade in flight; resuming during a cascade leaves
// the timer to be restarted when the cascade finishes.
func (e *Engine) Pause() bool {
	if !e.started || e.gameOver {
		return false
	}
	e.paused = !e.paused
	if e.paused {
		e.stopTimer()
		e.emit(Event{Kind: EventPaused})
		return true
	}
	if !e.processing {
		e.startTimer()
	}
	e.emit(Event{Kind: EventResumed})
	return true
}

// Shift moves the falling tile one column left (-1) or right (+1).
// The move is reverted if the target does not fit.
func (e *Engine) Shift(direction int) bool {
	if !e.acceptsCommands() || (direction != -1 && direction != 1) {
		return false
	}
	step := C(direction, 0)
	from := e.falling.Pos
	e.falling.Pos = e.falling.Pos.Plus(step)
	if !e.grid.Fits(e.falling) {
		e.falling.Pos = e.falling.Pos.Minus(step)
		return false
	}
	e.emit(Event{Kind: EventShifted, Tile: viewPtr(e.falling), From: &from})
	return true
}

// ShiftTo walks the falling tile toward column x one step at a time,
// stopping at the first obstruction. Returns true if the tile moved at all.
func (e *Engine) ShiftTo(x int) bool {
	if !e.acceptsCommands() {
		return false
	}
	moved := false
	for e.falling.Pos.X != x {
		dir := 1
		if x < e.falling.Pos.X {
			dir = -1
		}
		if !e.Shift(dir) {
			break
		}
		moved = true
	}
	return moved
}

// Drop hard-drops the falling tile to its resting row and lands it.
// A tile that cannot descend below the top row ends the game instead.
func (e *Engine) Drop() bool {
	if !e.acceptsCommands() {
		return false
	}
	from := e.falling.Pos
	for e.grid.Fits(e.falling) {
		e.falling.Pos = e.falling.Pos.Plus(Gravity)
	}
	e.falling.Pos = e.falling.Pos.Minus(Gravity)

	if e.falling.Pos.Y >= e.cfg.Rows-1 {
		e.endGame()
		return true
	}
	if e.falling.Pos != from {
		e.emit(Event{Kind: EventFell, Tile: viewPtr(e.falling), From: &from})
	}
	e.land()
	return true
}

// Advance moves the engine clock forward by dt, running every gravity tick
// and cascade action that becomes due, in time order.
func (e *Engine) Advance(dt time.Duration) {
	if dt < 0 || !e.initialized {
		return
	}
	target := e.now + dt
	for {
		due, ok := e.nextDue()
		if !ok || due > target {
			break
		}
		e.now = due
		if a, ok := e.sched.PopDue(e.now); ok {
			e.run(a)
			continue
		}
		e.nextTick += e.interval
		e.tick()
	}
	e.now = target
}

// tick applies one row of gravity to the falling tile.
func (e *Engine) tick() {
	if e.falling == nil || e.processing || e.gameOver {
		return
	}
	from := e.falling.Pos
	e.falling.Pos = e.falling.Pos.Plus(Gravity)
	if e.grid.Fits(e.falling) {
		e.emit(Event{Kind: EventFell, Tile: viewPtr(e.falling), From: &from})
		return
	}
	e.falling.Pos = e.falling.Pos.Minus(Gravity)
	if e.falling.Pos.Y >= e.cfg.Rows-1 {
		e.endGame()
		return
	}
	e.land()
}

// land transfers the falling tile to the grid and starts the cascade.
func (e *Engine) land() {
	t := e.falling
	e.falling = nil
	e.grid.Place(t)
	e.emit(Event{Kind: EventLanded, Tile: viewPtr(t)})

	e.processing = true
	e.stopTimer()
	e.cas = cascade{}
	e.beginMergePhase([]int{t.Pos.X}, 0)
	e.drain()
}

// spawn promotes the preview to a new falling tile and draws the next preview.
func (e *Engine) spawn() {
	if e.preview == 0 {
		e.preview = e.draw()
	}
	value := e.preview
	e.preview = e.draw()
	e.falling = e.newTile(value, SpawnCoord(e.cfg.Rows, e.cfg.Columns))
	e.emit(Event{Kind: EventSpawned, Tile: viewPtr(e.falling), Value: e.preview})
}

func (e *Engine) draw() int {
	return e.available[e.rng.Intn(len(e.available))]
}

func (e *Engine) newTile(value int, pos Coord) *Tile {
	e.nextID++
	return &Tile{ID: e.nextID, Value: value, Pos: pos}
}

// checkLevel applies every level-up the current score has earned.
func (e *Engine) checkLevel() {
	if e.cfg.LevelUpScore <= 0 {
		return
	}
	for e.score >= e.level*e.cfg.LevelUpScore {
		e.levelUp()
	}
}

func (e *Engine) levelUp() {
	e.level++
	e.interval -= e.cfg.SpeedUp
	if e.interval < e.cfg.MinInterval {
		e.interval = e.cfg.MinInterval
	}
	e.emit(Event{Kind: EventLevelUp})
}

func (e *Engine) endGame() {
	e.gameOver = true
	e.stopTimer()
	e.emit(Event{Kind: EventGameOver, Tile: viewPtr(e.falling)})
}

func (e *Engine) acceptsCommands() bool {
	return e.started && !e.gameOver && e.falling != nil && !e.processing
}

func (e *Engine) startTimer() {
	e.timerOn = true
	e.nextTick = e.now + e.interval
}

func (e *Engine) stopTimer() {
	e.timerOn = false
}

// nextDue returns the earliest pending cascade action or gravity tick.
func (e *Engine) nextDue() (time.Duration, bool) {
	a, hasAction := e.sched.Next()
	switch {
	case hasAction && e.timerOn:
		return min(a.Due, e.nextTick), true
	case hasAction:
		return a.Due, true
	case e.timerOn:
		return e.nextTick, true
	}
	return 0, false
}

func (e *Engine) emit(ev Event) {
	ev.At = e.now
	ev.Score = e.score
	ev.Level = e.level
	e.events = append(e.events, ev)
}

// Events returns and clears the events recorded since the last call.
func (e *Engine) Events() []Event {
	evs := e.events
	e.events = nil
	return evs
}

// Phase returns the current lifecycle state.
func (e *Engine) Phase() Phase {
	switch {
	case !e.initialized:
		return PhaseUninitialized
	case e.gameOver:
		return PhaseGameOver
	case e.processing:
		return PhaseCascading
	case !e.started:
		return PhaseReady
	case e.paused:
		return PhasePaused
	default:
		return PhaseRunning
	}
}

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// Level returns the current level, starting at 1.
func (e *Engine) Level() int { return e.level }

// Interval returns the current gravity period.
func (e *Engine) Interval() time.Duration { return e.interval }

// Mode returns the mode passed to Init.
func (e *Engine) Mode() int { return e.mode }

// Max returns the merge ceiling.
func (e *Engine) Max() int { return e.max }

// Available returns a copy of the spawnable values for this mode.
func (e *Engine) Available() []int { return append([]int(nil), e.available...) }

// Preview returns the value of the next tile, or 0 before the first spawn.
func (e *Engine) Preview() int { return e.preview }

// GameOver reports whether the terminal state was reached.
func (e *Engine) GameOver() bool { return e.gameOver }

// Paused reports whether the player paused the game.
func (e *Engine) Paused() bool { return e.paused }

// Processing reports whether a cascade is resolving.
func (e *Engine) Processing() bool { return e.processing }

// Now returns the engine clock.
func (e *Engine) Now() time.Duration { return e.now }

// Config returns the session parameters.
func (e *Engine) Config() Config { return e.cfg }

// Falling returns the falling tile, if any.
func (e *Engine) Falling() (TileView, bool) {
	if e.falling == nil {
		return TileView{}, false
	}
	return e.falling.View(), true
}

// Tiles returns every settled tile with its value and coordinate.
func (e *Engine) Tiles() []TileView {
	return e.grid.Tiles()
}

// Columns returns the settled values of each column, bottom to top.
func (e *Engine) Columns() [][]int {
	return e.grid.Values()
}

// Check verifies the grid invariants.
func (e *Engine) Check() error {
	return e.grid.Check()
}
