package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mergePass runs a single merge pass over column x to completion and
// reports whether it merged. The follow-up clear pass is discarded.
func mergePass(e *Engine, x int) bool {
	e.sched.Reset()
	e.beginMergePhase([]int{x}, 0)
	for {
		a, ok := e.sched.Next()
		if !ok || a.Kind != ActionMergeStep {
			break
		}
		e.now = a.Due
		e.sched.PopDue(e.now)
		e.run(a)
	}
	merged := e.cas.phaseMerged
	e.sched.Reset()
	return merged
}

func TestBasicMerge(t *testing.T) {
	e := started(t, testConfig(), 5, 2, 0, []int{2})

	require.True(t, e.Drop())
	assert.Equal(t, []int{4}, e.Columns()[0])
	assert.Equal(t, 4, e.Score())
	assert.True(t, e.Processing(), "clear pass waits for the settle delay")
	assert.Equal(t, PhaseCascading, e.Phase())

	evs := e.Events()
	assert.Equal(t, []EventKind{EventFell, EventLanded, EventMerged}, kinds(evs))
	merged := evs[2]
	assert.Equal(t, 4, merged.Tile.Value)
	assert.Equal(t, C(0, 0), merged.Tile.Pos)
	assert.Len(t, merged.Removed, 2)

	e.Advance(settle)
	assert.False(t, e.Processing())
	assert.Equal(t, []EventKind{EventSpawned, EventCascadeDone}, kinds(e.Events()))
	assert.NoError(t, e.Check())
}

func TestNoPrematureMerge(t *testing.T) {
	e := started(t, testConfig(), 5, 4, 0, []int{2})

	e.Drop()
	assert.Equal(t, []int{2, 4}, e.Columns()[0])
	assert.Equal(t, 0, e.Score())
	assert.False(t, e.Processing(), "clear pass ran immediately")
	assert.NotContains(t, kinds(e.Events()), EventMerged)
}

func TestMergeRestartsFromTop(t *testing.T) {
	tests := []struct {
		name   string
		column []int
		value  int
		want   [][]int // column after each settle step
		score  int
	}{
		{
			name:   "chain from the landing pair",
			column: []int{8, 4, 2},
			value:  2,
			want:   [][]int{{8, 4, 4}, {8, 8}, {16}},
			score:  4 + 8 + 16,
		},
		{
			name:   "pair below the top",
			column: []int{2, 2, 4},
			value:  8,
			want:   [][]int{{4, 4, 8}, {4, 4, 8}, {8, 8}, {16}},
			score:  4 + 8 + 16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := started(t, testConfig(), 5, tt.value, 0, tt.column)
			e.Drop()
			for i, want := range tt.want {
				if i > 0 {
					e.Advance(settle)
				}
				assert.Equal(t, want, e.Columns()[0], "step %d", i)
				assert.True(t, e.Processing(), "step %d", i)
			}
			e.Advance(settle)
			assert.False(t, e.Processing())
			assert.Equal(t, tt.score, e.Score())
			assert.NoError(t, e.Check())
		})
	}
}

func TestMergeCeiling(t *testing.T) {
	// Mode 2 spawns up to 8, so 16 is the ceiling.
	t.Run("max tiles stay inert", func(t *testing.T) {
		e := started(t, testConfig(), 2, 16, 0, []int{16})
		require.Equal(t, 16, e.Max())
		e.Drop()
		assert.Equal(t, []int{16, 16}, e.Columns()[0])
		assert.Equal(t, 0, e.Score())
		assert.False(t, e.Processing())
	})

	t.Run("merge stops at max", func(t *testing.T) {
		e := started(t, testConfig(), 2, 8, 0, []int{16, 8})
		e.Drop()
		e.Advance(time.Second)
		assert.Equal(t, []int{16, 16}, e.Columns()[0])
		assert.Equal(t, 16, e.Score())
		for _, tile := range e.Tiles() {
			assert.LessOrEqual(t, tile.Value, e.Max())
		}
	})
}

func TestMergePassIdempotent(t *testing.T) {
	e := started(t, testConfig(), 5, 2, 3, []int{2, 4, 8, 4, 2})
	e.processing = true

	assert.False(t, mergePass(e, 0))
	assert.Equal(t, []int{2, 4, 8, 4, 2}, e.Columns()[0])
	assert.False(t, mergePass(e, 0))
	assert.Equal(t, []int{2, 4, 8, 4, 2}, e.Columns()[0])
	assert.Equal(t, 0, e.Score())
	assert.Empty(t, e.Events())
}

func TestRowClear(t *testing.T) {
	eights := []int{8}
	e := started(t, testConfig(), 5, 8, 5, eights, eights, eights, eights, eights)

	e.Drop()
	evs := e.Events()
	require.Contains(t, kinds(evs), EventRowMarked)
	marked := evs[len(evs)-1]
	assert.Equal(t, EventRowMarked, marked.Kind)
	assert.Equal(t, 0, marked.Row)
	assert.Equal(t, 8, marked.Value)
	assert.Equal(t, 6, e.grid.Count(), "row removed before the settle delay")

	e.Advance(settle)
	assert.Equal(t, 0, e.grid.Count())
	assert.Equal(t, 8*DefaultColumns, e.Score())
	assert.False(t, e.Processing())

	evs = e.Events()
	assert.Equal(t, []EventKind{EventRowCleared, EventSpawned, EventCascadeDone}, kinds(evs))
	assert.Len(t, evs[0].Removed, DefaultColumns)
}

func TestRowClearCascade(t *testing.T) {
	// Row 1 holds 8s. Clearing it lets column 0 merge 2+2, which completes
	// row 0 with 4s.
	e := started(t, testConfig(), 5, 8, 5,
		[]int{2, 8, 2},
		[]int{4, 8},
		[]int{4, 8},
		[]int{4, 8},
		[]int{4, 8},
		[]int{4},
	)

	e.Drop()
	assert.Equal(t, []int{4, 8}, e.Columns()[5])

	steps := []struct {
		at      time.Duration
		columns [][]int
		score   int
	}{
		{200 * time.Millisecond, [][]int{{2, 2}, {4}, {4}, {4}, {4}, {4}}, 48},
		{400 * time.Millisecond, [][]int{{4}, {4}, {4}, {4}, {4}, {4}}, 52},
		{600 * time.Millisecond, [][]int{{4}, {4}, {4}, {4}, {4}, {4}}, 52},
		{800 * time.Millisecond, [][]int{{}, {}, {}, {}, {}, {}}, 76},
	}

	for _, step := range steps {
		for e.Now() < step.at {
			// The guard holds across every scheduled continuation.
			assert.True(t, e.Processing(), "at %v", e.Now())
			assert.False(t, e.Shift(-1))
			assert.False(t, e.Drop())
			_, ok := e.Falling()
			assert.False(t, ok)
			e.Advance(50 * time.Millisecond)
		}
		assert.Equal(t, step.columns, e.Columns(), "at %v", step.at)
		assert.Equal(t, step.score, e.Score(), "at %v", step.at)
	}

	assert.False(t, e.Processing())
	_, ok := e.Falling()
	assert.True(t, ok)
	assert.NoError(t, e.Check())

	var rows []int
	for _, ev := range e.Events() {
		if ev.Kind == EventRowCleared {
			rows = append(rows, ev.Row)
		}
	}
	assert.Equal(t, []int{1, 0}, rows)
}

func TestSingleClearPerPass(t *testing.T) {
	col := []int{8, 16}
	e := started(t, testConfig(), 5, 16, 5, col, col, col, col, col, []int{8})

	e.Drop()
	evs := e.Events()
	marked := evs[len(evs)-1]
	require.Equal(t, EventRowMarked, marked.Kind)
	assert.Equal(t, 0, marked.Row, "lowest complete row first")
	assert.Equal(t, 8, marked.Value)

	e.Advance(settle)
	// The 16s dropped into row 0; a second pass marks them.
	for x := 0; x < DefaultColumns; x++ {
		assert.Equal(t, []int{16}, e.Columns()[x])
	}
	assert.Equal(t, 48, e.Score())
	assert.True(t, e.Processing())
	evs = e.Events()
	marked = evs[len(evs)-1]
	require.Equal(t, EventRowMarked, marked.Kind)
	assert.Equal(t, 16, marked.Value)

	e.Advance(settle)
	assert.Equal(t, 0, e.grid.Count())
	assert.Equal(t, 48+96, e.Score())
	assert.False(t, e.Processing())
}

func TestPauseDoesNotCancelCascade(t *testing.T) {
	e := started(t, testConfig(), 5, 2, 0, []int{2})
	e.Drop()
	require.True(t, e.Processing())

	require.True(t, e.Pause())
	e.Advance(settle)
	assert.False(t, e.Processing(), "cascade finished while paused")
	f, ok := e.Falling()
	require.True(t, ok)
	assert.Equal(t, PhasePaused, e.Phase())

	e.Advance(5 * DefaultInitInterval)
	g, _ := e.Falling()
	assert.Equal(t, f.Pos, g.Pos, "gravity ran while paused")

	require.True(t, e.Pause())
	e.Advance(DefaultInitInterval)
	g, _ = e.Falling()
	assert.Equal(t, f.Pos.Plus(Gravity), g.Pos)
}

func TestResumeDuringCascadeWaitsForFinish(t *testing.T) {
	e := started(t, testConfig(), 5, 2, 0, []int{2})
	e.Drop()
	e.Pause()
	e.Pause()
	assert.Equal(t, PhaseCascading, e.Phase())

	e.Advance(settle)
	assert.Equal(t, PhaseRunning, e.Phase())
	f, _ := e.Falling()
	e.Advance(DefaultInitInterval)
	g, _ := e.Falling()
	assert.Equal(t, f.Pos.Plus(Gravity), g.Pos, "timer restarted at cascade finish")
}

func TestInitCancelsPendingCascade(t *testing.T) {
	e := started(t, testConfig(), 5, 2, 0, []int{2})
	e.Drop()
	require.True(t, e.Processing())
	require.NotZero(t, e.sched.Len())

	require.NoError(t, e.Init(5))
	assert.Zero(t, e.sched.Len())
	assert.Equal(t, PhaseReady, e.Phase())
	assert.Equal(t, 0, e.Score())
	assert.Empty(t, e.Tiles())

	e.Advance(10 * time.Second)
	assert.Empty(t, e.Events(), "stale continuation ran after Init")
	assert.Empty(t, e.Tiles())
	_, ok := e.Falling()
	assert.False(t, ok)
}
