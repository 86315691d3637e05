package core

import "testing"

func TestColumnAction(t *testing.T) {
	for x := 0; x < MaxColumnActions; x++ {
		a := ColumnAction(x)
		got, ok := a.Column()
		if !ok || got != x {
			t.Errorf("ColumnAction(%d).Column() = %d, %v", x, got, ok)
		}
	}
	if ColumnAction(MaxColumnActions) != ActionNone {
		t.Error("column past the last direct action should map to ActionNone")
	}
	if _, ok := ActionDrop.Column(); ok {
		t.Error("ActionDrop should not target a column")
	}
	if got := ColumnAction(2).String(); got != "Column3" {
		t.Errorf("ColumnAction(2).String() = %q, want Column3", got)
	}
}

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionLeft)
	f.Set(ColumnAction(4))
	f.Set(ColumnAction(1))

	if !f.Has(ActionLeft) || f.Has(ActionRight) {
		t.Errorf("Has() mismatch: %v", f.Actions)
	}
	if x, ok := f.TargetColumn(); !ok || x != 1 {
		t.Errorf("TargetColumn() = %d, %v; want 1, true", x, ok)
	}

	f.Clear()
	if f.Has(ActionLeft) {
		t.Error("Clear() left actions behind")
	}
	if _, ok := f.TargetColumn(); ok {
		t.Error("TargetColumn() after Clear")
	}

	var zero InputFrame
	if zero.Has(ActionDrop) {
		t.Error("zero frame reports an action")
	}
}
