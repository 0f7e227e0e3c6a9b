// Package canvas projects a flow graph into a flat list of selectable rows
// and renders them as an indented tree. The projection is pure so the view
// and the key handling in flowview can share one row model.
package canvas

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/stemma/internal/flow"
	"github.com/zjrosen/stemma/internal/ui/styles"
)

// Row is one selectable line of the canvas. Node rows have EdgeIndex -1;
// edge rows carry the owning node's ID plus the edge label, and are slots
// when the edge has no target yet.
type Row struct {
	NodeID    string
	EdgeIndex int
	EdgeLabel string
	TargetID  string
	Slot      bool
	Last      bool
	Depth     int
}

// IsNode reports whether the row represents a node rather than an edge.
func (r Row) IsNode() bool {
	return r.EdgeIndex < 0
}

// Flatten walks the graph from rootID in stored edge order and returns the
// visible rows. Branch nodes are shown with their canonical edges, and an
// Action node without a stored edge gets a synthesized empty slot so there
// is always somewhere to insert. Unreachable nodes are not listed.
func Flatten(g flow.Graph, rootID string) []Row {
	var rows []Row
	visited := make(map[string]bool)
	flattenNode(g, rootID, 0, visited, &rows)
	return rows
}

func flattenNode(g flow.Graph, id string, depth int, visited map[string]bool, rows *[]Row) {
	node, ok := g[id]
	if !ok || visited[id] {
		return
	}
	visited[id] = true

	*rows = append(*rows, Row{NodeID: id, EdgeIndex: -1, Depth: depth})

	edges := node.Edges
	switch node.Kind {
	case flow.KindBranch:
		edges = flow.NormalizeBranchEdges(edges)
	case flow.KindAction:
		if len(edges) == 0 {
			edges = []flow.Edge{{Label: flow.EdgeNext}}
		}
	case flow.KindEnd:
		return
	}

	for i, edge := range edges {
		*rows = append(*rows, Row{
			NodeID:    id,
			EdgeIndex: i,
			EdgeLabel: edge.Label,
			TargetID:  edge.TargetID,
			Slot:      !edge.Connected(),
			Last:      i == len(edges)-1,
			Depth:     depth + 1,
		})
		if edge.Connected() {
			flattenNode(g, edge.TargetID, depth+1, visited, rows)
		}
	}
}

// kindMarker maps a node kind to its one-cell tree glyph.
func kindMarker(kind flow.Kind) string {
	switch kind {
	case flow.KindBranch:
		return "◆"
	case flow.KindEnd:
		return "■"
	default:
		return "●"
	}
}

// Render draws the rows for g as a tree, highlighting the row at selected.
// Lines are truncated to width. The output has one line per row, which
// keeps cursor movement in flowview a plain index walk.
func Render(g flow.Graph, rootID string, selected, width int) string {
	rows := Flatten(g, rootID)
	if len(rows) == 0 {
		return styles.MutedStyle.Render("(empty)")
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderRow(g, row, i == selected, width))
	}
	return b.String()
}

func renderRow(g flow.Graph, row Row, selected bool, width int) string {
	indent := strings.Repeat("  ", row.Depth)

	var line string
	if row.IsNode() {
		node := g[row.NodeID]
		marker := styles.KindStyle(node.Kind.String()).Render(kindMarker(node.Kind))
		label := node.Label
		if selected {
			label = styles.SelectedLineStyle.Render(label)
		}
		line = fmt.Sprintf("%s%s %s %s", indent, marker, label,
			styles.MutedStyle.Render(row.NodeID))
	} else {
		glyph := "├─"
		if row.Last {
			glyph = "╰─"
		}
		connector := styles.ConnectorStyle.Render(glyph)
		label := styles.EdgeLabelStyle.Render(row.EdgeLabel)
		if row.Slot {
			line = fmt.Sprintf("%s%s %s %s", indent, connector, label,
				styles.MutedStyle.Render("(empty)"))
		} else {
			line = fmt.Sprintf("%s%s %s", indent, connector, label)
		}
	}

	cursor := "  "
	if selected {
		cursor = styles.SelectionIndicatorStyle.Render("> ")
	}
	line = cursor + line

	if width > 0 && lipgloss.Width(line) > width {
		line = truncate.StringWithTail(line, uint(width), "…")
	}
	return line
}

// Summary returns the node count caption shown in the pane border, such as
// "5 nodes".
func Summary(g flow.Graph) string {
	n := len(g)
	if n == 1 {
		return "1 node"
	}
	return fmt.Sprintf("%d nodes", n)
}

// PadLabel right-pads s with spaces to the given display width, accounting
// for wide runes.
func PadLabel(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
