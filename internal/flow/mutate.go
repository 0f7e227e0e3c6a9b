package flow

import "fmt"

// Insert creates a fresh node of the given kind under parentID and splices
// it in front of whatever the chosen slot pointed at, so inserting into an
// already-populated path never severs the downstream subtree.
//
// For an Action parent the single "Next" slot is used. For a Branch parent
// branchLabel selects the slot among the normalized edges, defaulting to
// the first edge when empty or not found. Returns the new graph, the new
// node's id, and whether anything changed. No-ops: unknown parent, End
// parent, or inserting an End node over a connected slot (an End cannot
// adopt the downstream subtree, and severing it would strand live nodes).
func Insert(g Graph, parentID, branchLabel string, kind Kind) (Graph, string, bool) {
	parent, ok := g[parentID]
	if !ok || parent.Kind == KindEnd {
		return g, "", false
	}

	switch parent.Kind {
	case KindAction:
		inherited := ""
		if len(parent.Edges) > 0 {
			inherited = parent.Edges[0].TargetID
		}
		if kind == KindEnd && inherited != "" {
			return g, "", false
		}
		next := g.Clone()
		id := NextID(next)
		node := adopt(NewNode(id, kind), inherited)
		p := next[parentID]
		p.Edges = []Edge{{Label: EdgeNext, TargetID: id}}
		next[parentID] = p
		next[id] = node
		return next, id, true

	case KindBranch:
		edges := NormalizeBranchEdges(parent.Edges)
		slot := 0
		if branchLabel != "" {
			for i, e := range edges {
				if e.Label == branchLabel {
					slot = i
					break
				}
			}
		}
		inherited := edges[slot].TargetID
		if kind == KindEnd && inherited != "" {
			return g, "", false
		}
		next := g.Clone()
		id := NextID(next)
		node := adopt(NewNode(id, kind), inherited)
		edges[slot].TargetID = id
		p := next[parentID]
		p.Edges = edges
		next[parentID] = p
		next[id] = node
		return next, id, true
	}
	return g, "", false
}

// adopt points the new node's first slot at the inherited downstream
// target. Branch nodes receive it on their "True" edge; End nodes never
// adopt (Insert refuses that case up front).
func adopt(n Node, target string) Node {
	if target == "" {
		return n
	}
	switch n.Kind {
	case KindAction:
		n.Edges = []Edge{{Label: EdgeNext, TargetID: target}}
	case KindBranch:
		n.Edges[0].TargetID = target
	}
	return n
}

// Delete removes targetID from the graph and re-wires the parent edge that
// pointed at it according to the deleted node's own connected ("adopted")
// edges:
//
//   - Action parent: the slot takes the first adopted edge's target,
//     keeping its own label, or becomes unconnected when none exist.
//   - Branch parent, zero adopted: the slot becomes unconnected.
//   - Branch parent, one adopted: the slot is retargeted, label preserved.
//   - Branch parent, several adopted: the slot is replaced in place by one
//     edge per adopted edge, labeled "{slot} + {adopted}" (or
//     "{slot} path {n}" when the adopted edge has no label), and the edge
//     set is re-normalized so the canonical True/False guarantee survives
//     the replaced slot. Duplicate composite labels are accepted as-is.
//
// The root is never deletable; unknown or unreachable targets are no-ops.
func Delete(g Graph, rootID, targetID string) (Graph, bool) {
	if targetID == rootID {
		return g, false
	}
	if _, ok := g[targetID]; !ok {
		return g, false
	}
	parent, found := FindParent(g, rootID, targetID)
	if !found {
		return g, false
	}

	next := g.Clone()
	victim := next[targetID]
	var adopted []Edge
	for _, e := range victim.Edges {
		if e.Connected() {
			adopted = append(adopted, e)
		}
	}

	p := next[parent.NodeID]
	switch p.Kind {
	case KindAction:
		slot := p.Edges[parent.EdgeIndex]
		slot.TargetID = ""
		if len(adopted) > 0 {
			slot.TargetID = adopted[0].TargetID
		}
		p.Edges[parent.EdgeIndex] = slot

	case KindBranch:
		slot := p.Edges[parent.EdgeIndex]
		switch len(adopted) {
		case 0:
			slot.TargetID = ""
			p.Edges[parent.EdgeIndex] = slot
		case 1:
			slot.TargetID = adopted[0].TargetID
			p.Edges[parent.EdgeIndex] = slot
		default:
			repl := make([]Edge, 0, len(adopted))
			for i, ae := range adopted {
				label := fmt.Sprintf("%s path %d", slot.Label, i+1)
				if ae.Label != "" {
					label = slot.Label + " + " + ae.Label
				}
				repl = append(repl, Edge{Label: label, TargetID: ae.TargetID})
			}
			edges := make([]Edge, 0, len(p.Edges)-1+len(repl))
			edges = append(edges, p.Edges[:parent.EdgeIndex]...)
			edges = append(edges, repl...)
			edges = append(edges, p.Edges[parent.EdgeIndex+1:]...)
			p.Edges = NormalizeBranchEdges(edges)
		}
	}
	next[parent.NodeID] = p
	delete(next, targetID)
	return next, true
}

// UpdateLabel replaces a node's display label. Structure is untouched, so
// this is not a trackable mutation and takes no history snapshot.
func UpdateLabel(g Graph, id, label string) (Graph, bool) {
	n, ok := g[id]
	if !ok {
		return g, false
	}
	next := g.Clone()
	n.Label = label
	next[id] = n
	return next, true
}

// AddBranchPath appends one unconnected edge labeled "Path {n}" to a branch
// node, where n is the one-based count of edges after the append. Stored
// edges are normalized first so the count matches what the UI shows. No-op
// for non-branch nodes.
func AddBranchPath(g Graph, id string) (Graph, bool) {
	n, ok := g[id]
	if !ok || n.Kind != KindBranch {
		return g, false
	}
	next := g.Clone()
	node := next[id]
	edges := NormalizeBranchEdges(node.Edges)
	node.Edges = append(edges, Edge{Label: fmt.Sprintf("Path %d", len(edges)+1)})
	next[id] = node
	return next, true
}
