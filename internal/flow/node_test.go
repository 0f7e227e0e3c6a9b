package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewNode_Action(t *testing.T) {
	n := NewNode("node-2", KindAction)

	assert.Equal(t, "node-2", n.ID)
	assert.Equal(t, KindAction, n.Kind)
	assert.Equal(t, "Action", n.Label)
	assert.Empty(t, n.Edges, "action nodes store no edges until connected")
}

func TestNewNode_Branch(t *testing.T) {
	n := NewNode("node-3", KindBranch)

	require.Len(t, n.Edges, 2, "branch nodes start with the canonical edges")
	assert.Equal(t, EdgeTrue, n.Edges[0].Label)
	assert.Equal(t, EdgeFalse, n.Edges[1].Label)
	assert.False(t, n.Edges[0].Connected())
	assert.False(t, n.Edges[1].Connected())
}

func TestNewNode_End(t *testing.T) {
	n := NewNode("node-4", KindEnd)

	assert.Equal(t, KindEnd, n.Kind)
	assert.Empty(t, n.Edges, "end nodes are terminal")
}

func TestNormalizeBranchEdges_AppendsMissing(t *testing.T) {
	tests := []struct {
		name  string
		in    []Edge
		wants []string
	}{
		{
			name:  "empty gains both canonical edges",
			in:    nil,
			wants: []string{EdgeTrue, EdgeFalse},
		},
		{
			name:  "missing False is appended at the end",
			in:    []Edge{{Label: EdgeTrue, TargetID: "node-9"}},
			wants: []string{EdgeTrue, EdgeFalse},
		},
		{
			name:  "missing True is appended after existing edges",
			in:    []Edge{{Label: EdgeFalse}, {Label: "Path 3"}},
			wants: []string{EdgeFalse, "Path 3", EdgeTrue},
		},
		{
			name:  "complete set is unchanged",
			in:    []Edge{{Label: EdgeTrue}, {Label: EdgeFalse}, {Label: "Path 3"}},
			wants: []string{EdgeTrue, EdgeFalse, "Path 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NormalizeBranchEdges(tt.in)
			require.Len(t, out, len(tt.wants))
			for i, label := range tt.wants {
				assert.Equal(t, label, out[i].Label, "edge %d", i)
			}
		})
	}
}

func TestNormalizeBranchEdges_PreservesTargets(t *testing.T) {
	in := []Edge{{Label: EdgeTrue, TargetID: "node-7"}, {Label: "Custom", TargetID: "node-8"}}

	out := NormalizeBranchEdges(in)

	require.Len(t, out, 3)
	assert.Equal(t, "node-7", out[0].TargetID)
	assert.Equal(t, "node-8", out[1].TargetID)
	assert.Equal(t, EdgeFalse, out[2].Label)
}

func TestNormalizeBranchEdges_DoesNotMutateInput(t *testing.T) {
	in := []Edge{{Label: "Custom"}}

	_ = NormalizeBranchEdges(in)

	require.Len(t, in, 1, "input slice must not grow")
	assert.Equal(t, "Custom", in[0].Label)
}

// TestProperty_NormalizeIsIdempotent verifies normalize(normalize(e)) ==
// normalize(e) for arbitrary edge sequences.
func TestProperty_NormalizeIsIdempotent(t *testing.T) {
	labels := []string{EdgeTrue, EdgeFalse, EdgeNext, "Path 3", "Custom", ""}

	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(0, 6).Draw(t, "count")
		edges := make([]Edge, count)
		for i := range edges {
			edges[i] = Edge{
				Label:    rapid.SampledFrom(labels).Draw(t, "label"),
				TargetID: rapid.SampledFrom([]string{"", "node-2", "node-5"}).Draw(t, "target"),
			}
		}

		once := NormalizeBranchEdges(edges)
		twice := NormalizeBranchEdges(once)

		if len(once) != len(twice) {
			t.Fatalf("length changed on second pass: %d != %d", len(once), len(twice))
		}
		for i := range once {
			if once[i] != twice[i] {
				t.Fatalf("edge %d changed on second pass: %+v != %+v", i, once[i], twice[i])
			}
		}
	})
}
