package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_InitialState(t *testing.T) {
	h := NewHistory(DefaultGraph())

	assert.Equal(t, 1, h.Len())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, ok := h.Undo()
	assert.False(t, ok, "undo at the initial entry is a no-op")
	_, ok = h.Redo()
	assert.False(t, ok, "redo at the last entry is a no-op")
}

func TestHistory_UndoNTimesReturnsOrigin(t *testing.T) {
	origin := DefaultGraph()
	h := NewHistory(origin)

	g := origin
	const commits = 4
	for range commits {
		var ok bool
		g, _, ok = Insert(g, "node-1", "", KindAction)
		require.True(t, ok)
		h.Commit(g)
	}

	var restored Graph
	for range commits {
		var ok bool
		restored, ok = h.Undo()
		require.True(t, ok)
	}

	assert.Equal(t, origin, restored, "undoing every commit must yield the exact starting graph")
	assert.False(t, h.CanUndo())
}

func TestHistory_RedoRestoresPreUndoGraph(t *testing.T) {
	h := NewHistory(DefaultGraph())

	g, _, _ := Insert(DefaultGraph(), "node-1", "", KindBranch)
	h.Commit(g)

	_, ok := h.Undo()
	require.True(t, ok)

	redone, ok := h.Redo()
	require.True(t, ok)
	assert.Equal(t, g, redone)
}

func TestHistory_CommitAfterUndoDropsRedoTail(t *testing.T) {
	h := NewHistory(DefaultGraph())

	g1, _, _ := Insert(DefaultGraph(), "node-1", "", KindAction)
	h.Commit(g1)
	g2, _, _ := Insert(g1, "node-1", "", KindAction)
	h.Commit(g2)

	_, ok := h.Undo()
	require.True(t, ok)
	require.True(t, h.CanRedo())

	g3, _, _ := Insert(g1, "node-1", "", KindBranch)
	h.Commit(g3)

	assert.False(t, h.CanRedo(), "commit after undo must discard the redo tail")
	assert.Equal(t, 3, h.Len())
}

func TestHistory_EntriesAreIsolatedSnapshots(t *testing.T) {
	g := DefaultGraph()
	h := NewHistory(g)

	g, _, _ = Insert(g, "node-1", "", KindAction)
	h.Commit(g)

	// Mutate the graph the caller still holds; the recorded entry and the
	// copy handed back by Undo/Redo must be unaffected.
	n := g["node-1"]
	n.Edges[0].TargetID = "node-99"
	g["node-1"] = n

	restored, ok := h.Undo()
	require.True(t, ok)
	redone, ok := h.Redo()
	require.True(t, ok)

	assert.Equal(t, DefaultGraph(), restored)
	assert.Equal(t, "node-2", redone["node-1"].Edges[0].TargetID)
}
