// Package history provides the bounded undo buffer of design snapshots.
package history

import "mockup-studio/internal/design"

// DefaultDepth is the number of snapshots retained before the oldest is
// evicted. Anything older is unrecoverable.
const DefaultDepth = 50

// Stack is a bounded stack of snapshots, oldest evicted first. A snapshot
// is committed after every completed mutation; undo walks back one commit
// at a time.
type Stack struct {
	depth int
	snaps []design.Snapshot
}

// NewStack creates a stack bounded to depth entries. A depth of zero or
// less uses DefaultDepth.
func NewStack(depth int) *Stack {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Stack{depth: depth}
}

// Commit appends a snapshot, evicting the oldest entry when full.
func (s *Stack) Commit(snap design.Snapshot) {
	s.snaps = append(s.snaps, snap)
	if len(s.snaps) > s.depth {
		s.snaps = s.snaps[1:]
	}
}

// Undo discards the most recent snapshot and returns the one before it,
// which is the state prior to the undone mutation. ok is false when no
// earlier state remains; the caller then performs a full reset.
func (s *Stack) Undo() (snap design.Snapshot, ok bool) {
	if len(s.snaps) == 0 {
		return nil, false
	}
	s.snaps = s.snaps[:len(s.snaps)-1]
	if len(s.snaps) == 0 {
		return nil, false
	}
	return s.snaps[len(s.snaps)-1], true
}

// Len returns the number of retained snapshots.
func (s *Stack) Len() int {
	return len(s.snaps)
}

// Peek returns the most recent snapshot without removing it.
func (s *Stack) Peek() (design.Snapshot, bool) {
	if len(s.snaps) == 0 {
		return nil, false
	}
	return s.snaps[len(s.snaps)-1], true
}

// Reset clears the stack entirely.
func (s *Stack) Reset() {
	s.snaps = nil
}
