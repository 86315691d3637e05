package core

import (
	"testing"
	"time"
)

func TestSchedulerOrder(t *testing.T) {
	var s Scheduler
	s.Schedule(ActionFinish, 300*time.Millisecond)
	s.Schedule(ActionMergeStep, 100*time.Millisecond)
	s.Schedule(ActionClearPass, 100*time.Millisecond)
	s.Schedule(ActionRemoveRow, 0)

	want := []ActionKind{ActionRemoveRow, ActionMergeStep, ActionClearPass, ActionFinish}
	for i, kind := range want {
		a, ok := s.PopDue(time.Second)
		if !ok {
			t.Fatalf("pop %d: queue empty", i)
		}
		if a.Kind != kind {
			t.Errorf("pop %d = %v, want %v", i, a.Kind, kind)
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestSchedulerPopDue(t *testing.T) {
	var s Scheduler
	s.Schedule(ActionClearPass, 200*time.Millisecond)

	if _, ok := s.PopDue(199 * time.Millisecond); ok {
		t.Error("popped an action before it was due")
	}
	next, ok := s.Next()
	if !ok || next.Due != 200*time.Millisecond {
		t.Errorf("Next() = %v, %v; want due 200ms", next, ok)
	}
	if _, ok := s.PopDue(200 * time.Millisecond); !ok {
		t.Error("action not popped at its due time")
	}
}

func TestSchedulerReset(t *testing.T) {
	var s Scheduler
	s.Schedule(ActionMergeStep, 0)
	s.Schedule(ActionFinish, time.Second)
	s.Reset()

	if s.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", s.Len())
	}
	if _, ok := s.Next(); ok {
		t.Error("Next() returned an action after Reset")
	}
}

func TestActionKindString(t *testing.T) {
	tests := map[ActionKind]string{
		ActionMergeStep: "MergeStep",
		ActionClearPass: "ClearPass",
		ActionRemoveRow: "RemoveRow",
		ActionFinish:    "Finish",
		ActionKind(42):  "Unknown",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("ActionKind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
