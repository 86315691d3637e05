package core

import (
	"sort"
	"time"
)

// ActionKind identifies one discrete cascade sub-step.
type ActionKind int

const (
	ActionMergeStep ActionKind = iota // compare one adjacent pair in a column
	ActionClearPass                   // look for the lowest complete row
	ActionRemoveRow                   // remove a marked row and compact columns
	ActionFinish                      // spawn the next tile and resume gravity
)

// String returns a human-readable name for the action.
func (k ActionKind) String() string {
	switch k {
	case ActionMergeStep:
		return "MergeStep"
	case ActionClearPass:
		return "ClearPass"
	case ActionRemoveRow:
		return "RemoveRow"
	case ActionFinish:
		return "Finish"
	default:
		return "Unknown"
	}
}

// Action is a pending cascade sub-step with the engine time it becomes due.
type Action struct {
	Kind ActionKind
	Due  time.Duration
	seq  uint64
}

// Scheduler is a queue of pending cascade actions ordered by due time.
// Actions with equal due times run in the order they were scheduled.
type Scheduler struct {
	queue []Action
	seq   uint64
}

// Schedule enqueues an action of the given kind due at the given time.
func (s *Scheduler) Schedule(kind ActionKind, due time.Duration) {
	s.seq++
	a := Action{Kind: kind, Due: due, seq: s.seq}
	i := sort.Search(len(s.queue), func(i int) bool {
		q := s.queue[i]
		return q.Due > a.Due || (q.Due == a.Due && q.seq > a.seq)
	})
	s.queue = append(s.queue, Action{})
	copy(s.queue[i+1:], s.queue[i:])
	s.queue[i] = a
}

// Next returns the earliest pending action without removing it.
func (s *Scheduler) Next() (Action, bool) {
	if len(s.queue) == 0 {
		return Action{}, false
	}
	return s.queue[0], true
}

// PopDue removes and returns the earliest action if it is due at now.
func (s *Scheduler) PopDue(now time.Duration) (Action, bool) {
	if len(s.queue) == 0 || s.queue[0].Due > now {
		return Action{}, false
	}
	a := s.queue[0]
	s.queue = s.queue[1:]
	return a, true
}

// Len returns the number of pending actions.
func (s *Scheduler) Len() int {
	return len(s.queue)
}

// Reset drops every pending action.
func (s *Scheduler) Reset() {
	s.queue = nil
}
