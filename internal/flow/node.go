// Package flow implements the workflow graph model: typed step nodes
// connected by labeled edges, the mutation engine that produces new graph
// snapshots, and the linear undo/redo history built on those snapshots.
//
// All mutations follow the same contract: they never modify the caller's
// graph in place. An operation that cannot apply (unknown id, wrong node
// kind, protected root) returns the input graph unchanged with a false
// changed flag rather than an error; these cases correspond to UI states
// that should already prevent the action.
package flow

// Kind identifies the type of a step node.
type Kind string

const (
	// KindAction is a step with at most one outgoing edge ("Next").
	KindAction Kind = "action"
	// KindBranch is a conditional step with two or more labeled outgoing
	// edges. It always exposes at least the canonical True/False edges.
	KindBranch Kind = "branch"
	// KindEnd is a terminal step with no outgoing edges.
	KindEnd Kind = "end"
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindAction:
		return "Action"
	case KindBranch:
		return "Branch"
	case KindEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// Canonical edge labels every branch node must expose, and the fixed
// outgoing edge label for action nodes.
const (
	EdgeTrue  = "True"
	EdgeFalse = "False"
	EdgeNext  = "Next"
)

// Edge is a labeled, optionally-connected outgoing slot from a node.
// An empty TargetID means the slot is unconnected; the UI renders it as a
// placeholder, it is not a graph node.
type Edge struct {
	Label    string `json:"label"`
	TargetID string `json:"targetId,omitempty"`
}

// Connected reports whether the edge points at a node.
func (e Edge) Connected() bool {
	return e.TargetID != ""
}

// Node is a single step in the workflow tree.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Kind  Kind   `json:"kind"`
	Edges []Edge `json:"children,omitempty"`
}

// NewNode creates a node of the given kind. Branch nodes start with the two
// canonical edges, both unconnected. Action and End nodes start with no
// edges; the empty "Next" slot shown for actions is synthesized at render
// time, never stored.
func NewNode(id string, kind Kind) Node {
	n := Node{
		ID:    id,
		Label: kind.String(),
		Kind:  kind,
	}
	if kind == KindBranch {
		n.Edges = []Edge{{Label: EdgeTrue}, {Label: EdgeFalse}}
	}
	return n
}

// NormalizeBranchEdges returns a copy of edges guaranteed to contain both
// canonical labels, preserving existing edges' order, labels, and targets.
// Missing canonical edges are appended at the end as unconnected slots.
// The function is pure and idempotent; it never mutates its input.
func NormalizeBranchEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges), len(edges)+2)
	copy(out, edges)
	if !hasEdgeLabel(out, EdgeTrue) {
		out = append(out, Edge{Label: EdgeTrue})
	}
	if !hasEdgeLabel(out, EdgeFalse) {
		out = append(out, Edge{Label: EdgeFalse})
	}
	return out
}

func hasEdgeLabel(edges []Edge, label string) bool {
	for _, e := range edges {
		if e.Label == label {
			return true
		}
	}
	return false
}
