package flow

import (
	"fmt"
	"strconv"
	"strings"
)

// Graph is the full node map keyed by node id. The mutation engine is the
// only writer; every returned Graph is a value the engine will not touch
// again, so readers holding an older snapshot never observe changes.
type Graph map[string]Node

// DefaultRootID is the designated root node id, fixed for the lifetime of
// a graph. The root is always an Action node and is never deletable.
const DefaultRootID = "node-1"

// DefaultGraph returns the single-node fallback graph: one Action node at
// the root id, labeled "Start", with no children.
func DefaultGraph() Graph {
	return Graph{
		DefaultRootID: {ID: DefaultRootID, Label: "Start", Kind: KindAction},
	}
}

// Clone produces a deep, independent copy of the graph, including each
// node's edge slice. Used whenever a snapshot must outlive subsequent
// mutation of the live graph: history recording, persistence, undo/redo
// restore.
func (g Graph) Clone() Graph {
	out := make(Graph, len(g))
	for id, n := range g {
		if n.Edges != nil {
			edges := make([]Edge, len(n.Edges))
			copy(edges, n.Edges)
			n.Edges = edges
		}
		out[id] = n
	}
	return out
}

// Parent identifies the edge slot that points at a node: the owning node id
// and the index of the edge within its stored edge sequence.
type Parent struct {
	NodeID    string
	EdgeIndex int
}

// FindParent locates the first edge reachable from rootID whose target is
// targetID, visiting each node's edges in stored order and descending into
// connected edges depth-first. Uses an explicit stack so deeply nested
// graphs cannot exhaust the goroutine stack; match order is identical to
// the recursive formulation. Terminates because the mutation engine never
// creates a cycle.
func FindParent(g Graph, rootID, targetID string) (Parent, bool) {
	type frame struct {
		id   string
		next int
	}
	stack := []frame{{id: rootID}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		n, ok := g[f.id]
		if !ok || f.next >= len(n.Edges) {
			stack = stack[:len(stack)-1]
			continue
		}
		idx := f.next
		f.next++
		e := n.Edges[idx]
		if e.TargetID == targetID {
			return Parent{NodeID: n.ID, EdgeIndex: idx}, true
		}
		if e.Connected() {
			stack = append(stack, frame{id: e.TargetID})
		}
	}
	return Parent{}, false
}

// NextID returns a fresh node id using the node-N scheme: one past the
// highest numeric suffix currently present in the graph. The suffix is
// taken after the last dash so persisted ids from other schemes still
// count; ids need not be contiguous.
func NextID(g Graph) string {
	highest := 0
	for id := range g {
		if i := strings.LastIndex(id, "-"); i >= 0 {
			if n, err := strconv.Atoi(id[i+1:]); err == nil && n > highest {
				highest = n
			}
		}
	}
	return fmt.Sprintf("node-%d", highest+1)
}
