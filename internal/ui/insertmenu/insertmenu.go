// Package insertmenu provides the node-kind picker shown when inserting
// into a flow.
package insertmenu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/stemma/internal/flow"
	"github.com/zjrosen/stemma/internal/ui/styles"
)

// options in display order.
var options = []flow.Kind{flow.KindAction, flow.KindBranch, flow.KindEnd}

// optionLabels maps kinds to their display labels.
var optionLabels = map[flow.Kind]string{
	flow.KindAction: "Action",
	flow.KindBranch: "Branch (True/False)",
	flow.KindEnd:    "End",
}

// SelectMsg is sent when a kind is chosen.
type SelectMsg struct {
	Kind flow.Kind
}

// CancelMsg is sent when the menu is dismissed.
type CancelMsg struct{}

// Model holds the insert menu state.
type Model struct {
	cursor         int
	viewportWidth  int
	viewportHeight int
}

// New creates a new insert menu with Action preselected.
func New() Model {
	return Model{}
}

// SetSize sets the viewport dimensions for overlay rendering.
func (m Model) SetSize(width, height int) Model {
	m.viewportWidth = width
	m.viewportHeight = height
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down", "ctrl+n":
			if m.cursor < len(options)-1 {
				m.cursor++
			}
		case "k", "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter":
			kind := options[m.cursor]
			return m, func() tea.Msg {
				return SelectMsg{Kind: kind}
			}
		case "esc":
			return m, func() tea.Msg {
				return CancelMsg{}
			}
		}
	}
	return m, nil
}

// View renders the menu box (without positioning).
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)

	width := 25

	var body strings.Builder
	for i, kind := range options {
		var line string
		if i == m.cursor {
			line = styles.SelectionIndicatorStyle.Render(">") +
				styles.SelectedLineStyle.Render(optionLabels[kind])
		} else {
			line = " " + optionLabels[kind]
		}
		body.WriteString(line)
		if i < len(options)-1 {
			body.WriteString("\n")
		}
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width)

	dividerStyle := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", width))
	content := titleStyle.Render("Insert Node") + "\n" +
		divider + "\n" +
		body.String()

	return boxStyle.Render(content)
}

// Overlay centers the menu over the viewport.
func (m Model) Overlay() string {
	return lipgloss.Place(
		m.viewportWidth, m.viewportHeight,
		lipgloss.Center, lipgloss.Center,
		m.View(),
	)
}

// Selected returns the currently highlighted kind.
func (m Model) Selected() flow.Kind {
	return options[m.cursor]
}
