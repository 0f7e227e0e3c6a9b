package flow

import "github.com/zjrosen/stemma/internal/log"

// Editor owns the live graph and the undo/redo history, and exposes the
// operations the UI layer drives. It is single-writer by contract: every
// operation runs to completion within one event-handling turn, producing a
// new snapshot; collaborators holding an earlier Graph never see it change.
//
// Subscribers are notified with the current graph after every change,
// including label edits (which bypass history but still need persisting).
type Editor struct {
	graph   Graph
	rootID  string
	history *History
	subs    []func(Graph)
}

// NewEditor creates an editor around a loaded graph. A nil or empty map,
// or one missing the designated root node, falls back to the single-node
// default graph; the loader is expected to have reported the condition.
func NewEditor(initial Graph) *Editor {
	g := initial
	if _, ok := g[DefaultRootID]; !ok {
		if len(g) > 0 {
			log.Warn(log.CatFlow, "Loaded graph missing root, using default", "root", DefaultRootID, "nodes", len(g))
		}
		g = DefaultGraph()
	}
	g = g.Clone()
	return &Editor{
		graph:   g,
		rootID:  DefaultRootID,
		history: NewHistory(g),
	}
}

// Reload replaces the live graph with one freshly loaded from storage and
// resets history, since undo entries from the stale graph no longer apply.
// The same root fallback as NewEditor is used. Subscribers are notified.
func (e *Editor) Reload(g Graph) {
	if _, ok := g[e.rootID]; !ok {
		if len(g) > 0 {
			log.Warn(log.CatFlow, "Reloaded graph missing root, using default", "root", e.rootID, "nodes", len(g))
		}
		g = DefaultGraph()
	}
	e.graph = g.Clone()
	e.history = NewHistory(e.graph)
	e.notify()
}

// Graph returns the current snapshot. Callers must treat it as read-only;
// the editor never mutates a snapshot it has handed out.
func (e *Editor) Graph() Graph {
	return e.graph
}

// RootID returns the designated root node id.
func (e *Editor) RootID() string {
	return e.rootID
}

// Subscribe registers fn to be called with the new graph after every
// change. Intended for the render and persistence collaborators.
func (e *Editor) Subscribe(fn func(Graph)) {
	e.subs = append(e.subs, fn)
}

// Insert splices a new node of the given kind into the chosen slot under
// parentID. Trackable: commits a history snapshot on success.
func (e *Editor) Insert(parentID, branchLabel string, kind Kind) (string, bool) {
	next, id, changed := Insert(e.graph, parentID, branchLabel, kind)
	if !changed {
		return "", false
	}
	e.commit(next)
	log.Debug(log.CatFlow, "Inserted node", "id", id, "kind", string(kind), "parent", parentID)
	return id, true
}

// Delete removes a node and re-wires its parent edge around it.
// Trackable: commits a history snapshot on success.
func (e *Editor) Delete(targetID string) bool {
	next, changed := Delete(e.graph, e.rootID, targetID)
	if !changed {
		return false
	}
	e.commit(next)
	log.Debug(log.CatFlow, "Deleted node", "id", targetID)
	return true
}

// AddBranchPath appends a new unconnected path edge to a branch node.
// Trackable: commits a history snapshot on success.
func (e *Editor) AddBranchPath(nodeID string) bool {
	next, changed := AddBranchPath(e.graph, nodeID)
	if !changed {
		return false
	}
	e.commit(next)
	log.Debug(log.CatFlow, "Added branch path", "id", nodeID)
	return true
}

// UpdateLabel replaces a node's display label. Not trackable: the change
// is persisted via notification but takes no history snapshot.
func (e *Editor) UpdateLabel(id, label string) bool {
	next, changed := UpdateLabel(e.graph, id, label)
	if !changed {
		return false
	}
	e.graph = next
	e.notify()
	return true
}

// Undo steps back one history entry and makes it the live graph.
// Returns false when already at the oldest snapshot.
func (e *Editor) Undo() bool {
	g, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.graph = g
	e.notify()
	return true
}

// Redo steps forward one history entry and makes it the live graph.
// Returns false when already at the newest snapshot.
func (e *Editor) Redo() bool {
	g, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.graph = g
	e.notify()
	return true
}

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

func (e *Editor) commit(g Graph) {
	e.graph = g
	e.history.Commit(g)
	e.notify()
}

func (e *Editor) notify() {
	for _, fn := range e.subs {
		fn(e.graph)
	}
}
