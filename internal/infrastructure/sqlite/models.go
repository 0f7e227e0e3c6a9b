package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zjrosen/stemma/internal/flow"
)

// Flow is the stored metadata for one workflow tree.
type Flow struct {
	ID        int64
	GUID      string
	Name      string
	RootID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// flowRow maps the flows table with Unix timestamps for time values.
type flowRow struct {
	ID        int64
	GUID      string
	Name      string
	RootID    string
	CreatedAt int64
	UpdatedAt int64
}

func (r flowRow) toFlow() *Flow {
	return &Flow{
		ID:        r.ID,
		GUID:      r.GUID,
		Name:      r.Name,
		RootID:    r.RootID,
		CreatedAt: time.Unix(r.CreatedAt, 0),
		UpdatedAt: time.Unix(r.UpdatedAt, 0),
	}
}

// nodeRow maps the flow_nodes table. Edges are stored as a JSON array in
// the persisted layout: [{label, targetId?}].
type nodeRow struct {
	NodeID string
	Label  string
	Kind   string
	Edges  string
}

func toNodeRow(n flow.Node) (nodeRow, error) {
	edges := n.Edges
	if edges == nil {
		edges = []flow.Edge{}
	}
	raw, err := json.Marshal(edges)
	if err != nil {
		return nodeRow{}, fmt.Errorf("encoding edges for node %s: %w", n.ID, err)
	}
	return nodeRow{
		NodeID: n.ID,
		Label:  n.Label,
		Kind:   string(n.Kind),
		Edges:  string(raw),
	}, nil
}

func (r nodeRow) toNode() (flow.Node, error) {
	var edges []flow.Edge
	if err := json.Unmarshal([]byte(r.Edges), &edges); err != nil {
		return flow.Node{}, fmt.Errorf("decoding edges for node %s: %w", r.NodeID, err)
	}
	if len(edges) == 0 {
		edges = nil
	}
	return flow.Node{
		ID:    r.NodeID,
		Label: r.Label,
		Kind:  flow.Kind(r.Kind),
		Edges: edges,
	}, nil
}
