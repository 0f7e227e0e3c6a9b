package flow

// History is a strictly linear undo/redo stack of graph snapshots with a
// cursor into the current position. Entries are immutable once recorded:
// Commit stores a deep copy, and Undo/Redo hand back fresh copies so later
// edits cannot reach into history.
type History struct {
	entries []Graph
	cursor  int
}

// NewHistory creates a history positioned at its single initial snapshot.
func NewHistory(initial Graph) *History {
	return &History{entries: []Graph{initial.Clone()}}
}

// Commit records a new snapshot after a trackable mutation. Any redo
// entries beyond the cursor are discarded (standard linear-undo semantics),
// then the snapshot is appended and the cursor advanced to it.
func (h *History) Commit(g Graph) {
	h.entries = append(h.entries[:h.cursor+1], g.Clone())
	h.cursor = len(h.entries) - 1
}

// Undo moves the cursor back one position and returns a copy of that
// snapshot. Returns false at the oldest entry.
func (h *History) Undo() (Graph, bool) {
	if h.cursor == 0 {
		return nil, false
	}
	h.cursor--
	return h.entries[h.cursor].Clone(), true
}

// Redo moves the cursor forward one position and returns a copy of that
// snapshot. Returns false at the newest entry.
func (h *History) Redo() (Graph, bool) {
	if h.cursor >= len(h.entries)-1 {
		return nil, false
	}
	h.cursor++
	return h.entries[h.cursor].Clone(), true
}

// CanUndo reports whether an older snapshot exists.
func (h *History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether a newer snapshot exists.
func (h *History) CanRedo() bool {
	return h.cursor < len(h.entries)-1
}

// Len returns the number of recorded snapshots.
func (h *History) Len() int {
	return len(h.entries)
}
