package core

import "time"

// cascade tracks the merge phase in progress between scheduled actions.
type cascade struct {
	pending []int // columns still to scan in this merge phase
	x       int   // column being scanned
	index   int   // upper index of the pair under comparison

	passMerged  bool // the current column merged at least once
	phaseMerged bool // any column in this phase merged

	row      int // row marked by the last clear pass
	rowValue int
}

// beginMergePhase queues a merge pass over each listed column in order.
// The first comparison runs after delay.
func (e *Engine) beginMergePhase(columns []int, delay time.Duration) {
	e.cas.pending = columns
	e.cas.phaseMerged = false
	e.nextColumn(delay)
}

// nextColumn starts the next column with a comparable pair, or hands over to
// the clear pass once every column has been scanned.
func (e *Engine) nextColumn(delay time.Duration) {
	for len(e.cas.pending) > 0 {
		x := e.cas.pending[0]
		e.cas.pending = e.cas.pending[1:]
		if e.grid.Height(x) < 2 {
			continue
		}
		e.cas.x = x
		e.cas.index = e.grid.Height(x) - 1
		e.cas.passMerged = false
		e.sched.Schedule(ActionMergeStep, e.now+delay)
		return
	}

	var wait time.Duration
	if e.cas.phaseMerged {
		wait = e.cfg.SettleDelay
	}
	e.sched.Schedule(ActionClearPass, e.now+wait)
}

// drain runs every action already due at the current time.
func (e *Engine) drain() {
	for {
		a, ok := e.sched.PopDue(e.now)
		if !ok {
			return
		}
		e.run(a)
	}
}

func (e *Engine) run(a Action) {
	switch a.Kind {
	case ActionMergeStep:
		e.mergeStep()
	case ActionClearPass:
		e.clearPass()
	case ActionRemoveRow:
		e.removeRow()
	case ActionFinish:
		e.finish()
	}
}

// mergeStep compares one adjacent pair of the scanned column. A merge
// restarts the scan from the new top of the column; once the column has
// merged, every further comparison waits for the settle delay.
func (e *Engine) mergeStep() {
	c := &e.cas
	col := e.grid.cells[c.x]
	i := c.index

	if i >= 1 && i < len(col) {
		upper, lower := col[i], col[i-1]
		if upper.Value == lower.Value && upper.Value < e.max {
			merged := e.newTile(upper.Value*2, lower.Pos)
			lo, up, shifted := e.grid.mergeAt(c.x, i, merged)
			c.passMerged = true
			c.phaseMerged = true

			e.score += merged.Value
			e.emit(Event{
				Kind:    EventMerged,
				Tile:    viewPtr(merged),
				Removed: views([]*Tile{lo, up}),
				Value:   merged.Value,
			})
			if len(shifted) > 0 {
				e.emit(Event{Kind: EventCollapsed, Moved: views(shifted)})
			}
			e.checkLevel()
			c.index = e.grid.Height(c.x) - 1
		} else {
			c.index--
		}
	} else {
		c.index = 0
	}

	var delay time.Duration
	if c.passMerged {
		delay = e.cfg.SettleDelay
	}
	if c.index >= 1 {
		e.sched.Schedule(ActionMergeStep, e.now+delay)
		return
	}
	e.nextColumn(delay)
}

// clearPass marks the lowest complete row, or finishes the cascade when
// there is none. At most one row is handled per pass.
func (e *Engine) clearPass() {
	row, value, ok := e.grid.completeRow()
	if !ok {
		e.sched.Schedule(ActionFinish, e.now)
		return
	}
	e.cas.row = row
	e.cas.rowValue = value
	e.emit(Event{Kind: EventRowMarked, Row: row, Value: value})
	e.sched.Schedule(ActionRemoveRow, e.now+e.cfg.SettleDelay)
}

// removeRow deletes the marked row from every column, compacts the columns
// and rescans all of them for merges.
func (e *Engine) removeRow() {
	row := e.cas.row
	removed := make([]*Tile, 0, e.cfg.Columns)
	var moved []*Tile
	for x := 0; x < e.cfg.Columns; x++ {
		removed = append(removed, e.grid.removeAt(x, row))
		moved = append(moved, e.grid.cells[x][row:]...)
	}

	e.score += e.cas.rowValue * e.cfg.Columns
	e.emit(Event{
		Kind:    EventRowCleared,
		Row:     row,
		Value:   e.cas.rowValue,
		Removed: views(removed),
	})
	if len(moved) > 0 {
		e.emit(Event{Kind: EventCollapsed, Moved: views(moved)})
	}
	e.checkLevel()

	all := make([]int, e.cfg.Columns)
	for x := range all {
		all[x] = x
	}
	e.beginMergePhase(all, e.cfg.SettleDelay)
}

// finish spawns the next tile, resumes gravity and releases the command guard.
func (e *Engine) finish() {
	e.cas = cascade{}
	e.spawn()
	if !e.paused {
		e.startTimer()
	}
	e.processing = false
	e.emit(Event{Kind: EventCascadeDone})
}
