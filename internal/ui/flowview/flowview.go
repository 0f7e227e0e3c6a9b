// Package flowview implements the main editing view: the flow tree, the
// insert menu, inline renaming, and the status bar.
package flowview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/stemma/internal/config"
	"github.com/zjrosen/stemma/internal/flow"
	"github.com/zjrosen/stemma/internal/log"
	"github.com/zjrosen/stemma/internal/ui/canvas"
	"github.com/zjrosen/stemma/internal/ui/insertmenu"
	"github.com/zjrosen/stemma/internal/ui/styles"
)

// Store is the persistence surface the view needs. *sqlite.FlowRepository
// satisfies it.
type Store interface {
	SaveGraph(ctx context.Context, flowID int64, rootID string, g flow.Graph) error
	LoadGraph(ctx context.Context, flowID int64) (flow.Graph, error)
}

// ReloadMsg asks the view to re-read the flow from storage. Sent by the
// database watcher when the file changes outside this process.
type ReloadMsg struct{}

type savedMsg struct {
	err error
}

type reloadedMsg struct {
	graph flow.Graph
	err   error
}

type viewMode int

const (
	modeBrowse viewMode = iota
	modeInsert
	modeRename
	modeHelp
)

// Model holds the flow view state.
type Model struct {
	editor   *flow.Editor
	store    Store
	flowID   int64
	flowName string
	cfg      config.Config

	width  int
	height int
	cursor int
	mode   viewMode

	insertMenu   insertmenu.Model
	insertParent string
	insertLabel  string

	renameInput  textinput.Model
	renameTarget string

	helpView string

	status      string
	statusIsErr bool

	lastSave time.Time
	dirty    bool
}

// New creates the flow view around an editor and its backing store.
func New(editor *flow.Editor, store Store, flowID int64, flowName string, cfg config.Config) Model {
	ti := textinput.New()
	ti.Prompt = "Label: "
	ti.CharLimit = 120

	return Model{
		editor:      editor,
		store:       store,
		flowID:      flowID,
		flowName:    flowName,
		cfg:         cfg,
		insertMenu:  insertmenu.New(),
		renameInput: ti,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.insertMenu = m.insertMenu.SetSize(width, height)
	m.renameInput.Width = max(width-20, 10)
	return m
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case savedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatDB, "Saving flow failed", msg.err, "flow", m.flowName)
			return m.setError(fmt.Sprintf("Save failed: %v", msg.err)), nil
		}
		m.lastSave = time.Now()
		m.dirty = false
		return m, nil

	case ReloadMsg:
		if !m.cfg.AutoRefresh {
			return m, nil
		}
		// A write we just made also trips the watcher; skip those.
		if time.Since(m.lastSave) < 2*m.cfg.AutoRefreshDebounce {
			return m, nil
		}
		return m, m.loadCmd()

	case reloadedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatDB, "Reloading flow failed", msg.err, "flow", m.flowName)
			return m.setError(fmt.Sprintf("Reload failed: %v", msg.err)), nil
		}
		m.editor.Reload(msg.graph)
		m.cursor = m.clampCursor(m.cursor)
		return m.setStatus("Reloaded from disk"), nil

	case insertmenu.SelectMsg:
		m.mode = modeBrowse
		id, ok := m.editor.Insert(m.insertParent, m.insertLabel, msg.Kind)
		if !ok {
			return m.setError("Cannot insert here"), nil
		}
		m.cursor = m.rowIndexOf(id)
		next, cmd := m.afterMutation()
		return next.setStatus(fmt.Sprintf("Inserted %s", id)), cmd

	case insertmenu.CancelMsg:
		m.mode = modeBrowse
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeInsert:
		var cmd tea.Cmd
		m.insertMenu, cmd = m.insertMenu.Update(msg)
		return m, cmd

	case modeRename:
		return m.handleRenameKey(msg)

	case modeHelp:
		switch msg.String() {
		case "q", "esc", "?":
			m.mode = modeBrowse
		}
		return m, nil
	}

	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.statusIsErr = false
	rows := m.rows()

	switch msg.String() {
	case "q", "ctrl+c":
		if m.dirty && m.store != nil {
			return m, tea.Sequence(m.saveCmd(), tea.Quit)
		}
		return m, tea.Quit

	case "j", "down":
		m.cursor = m.clampCursor(m.cursor + 1)
	case "k", "up":
		m.cursor = m.clampCursor(m.cursor - 1)
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(rows) - 1

	case "i", "enter":
		row, ok := m.currentRow(rows)
		if !ok {
			return m, nil
		}
		if row.IsNode() {
			return m.setStatus("Select an edge to insert into"), nil
		}
		m.insertParent = row.NodeID
		m.insertLabel = row.EdgeLabel
		m.insertMenu = insertmenu.New().SetSize(m.width, m.height)
		m.mode = modeInsert

	case "d":
		row, ok := m.currentRow(rows)
		if !ok || !row.IsNode() {
			return m.setStatus("Select a node to delete"), nil
		}
		if !m.editor.Delete(row.NodeID) {
			return m.setError("Cannot delete this node"), nil
		}
		m.cursor = m.clampCursor(m.cursor)
		next, cmd := m.afterMutation()
		return next.setStatus(fmt.Sprintf("Deleted %s", row.NodeID)), cmd

	case "r":
		row, ok := m.currentRow(rows)
		if !ok || !row.IsNode() {
			return m.setStatus("Select a node to rename"), nil
		}
		m.renameTarget = row.NodeID
		m.renameInput.SetValue(m.editor.Graph()[row.NodeID].Label)
		m.renameInput.CursorEnd()
		m.mode = modeRename
		return m, m.renameInput.Focus()

	case "a":
		row, ok := m.currentRow(rows)
		if !ok || !row.IsNode() {
			return m.setStatus("Select a branch node to add a path"), nil
		}
		if !m.editor.AddBranchPath(row.NodeID) {
			return m.setError("Paths can only be added to branch nodes"), nil
		}
		next, cmd := m.afterMutation()
		return next.setStatus("Added path"), cmd

	case "u":
		if !m.editor.Undo() {
			return m.setStatus("Nothing to undo"), nil
		}
		m.cursor = m.clampCursor(m.cursor)
		next, cmd := m.afterMutation()
		return next.setStatus("Undone"), cmd

	case "ctrl+r":
		if !m.editor.Redo() {
			return m.setStatus("Nothing to redo"), nil
		}
		m.cursor = m.clampCursor(m.cursor)
		next, cmd := m.afterMutation()
		return next.setStatus("Redone"), cmd

	case "s":
		if m.store == nil {
			return m, nil
		}
		return m, m.saveCmd()

	case "?":
		m.helpView = m.buildHelp()
		m.mode = modeHelp
	}

	return m, nil
}

func (m Model) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.renameInput.Blur()
		return m, nil

	case "enter":
		m.mode = modeBrowse
		m.renameInput.Blur()
		label := strings.TrimSpace(m.renameInput.Value())
		if label == "" || !m.editor.UpdateLabel(m.renameTarget, label) {
			return m, nil
		}
		// Label edits skip history but still need persisting.
		var cmd tea.Cmd
		if m.cfg.AutoSave && m.store != nil {
			cmd = m.saveCmd()
		} else {
			m.dirty = true
		}
		return m.setStatus("Renamed"), cmd
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

// afterMutation arranges persistence for a committed change.
func (m Model) afterMutation() (Model, tea.Cmd) {
	if m.cfg.AutoSave && m.store != nil {
		return m, m.saveCmd()
	}
	m.dirty = true
	return m, nil
}

func (m Model) saveCmd() tea.Cmd {
	g := m.editor.Graph()
	rootID := m.editor.RootID()
	return func() tea.Msg {
		err := m.store.SaveGraph(context.Background(), m.flowID, rootID, g)
		return savedMsg{err: err}
	}
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		g, err := m.store.LoadGraph(context.Background(), m.flowID)
		return reloadedMsg{graph: g, err: err}
	}
}

func (m Model) rows() []canvas.Row {
	return canvas.Flatten(m.editor.Graph(), m.editor.RootID())
}

func (m Model) currentRow(rows []canvas.Row) (canvas.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(rows) {
		return canvas.Row{}, false
	}
	return rows[m.cursor], true
}

func (m Model) clampCursor(i int) int {
	last := len(m.rows()) - 1
	if i > last {
		i = last
	}
	if i < 0 {
		i = 0
	}
	return i
}

// rowIndexOf returns the row index of the node, or the current cursor when
// the node is not visible.
func (m Model) rowIndexOf(nodeID string) int {
	for i, row := range m.rows() {
		if row.IsNode() && row.NodeID == nodeID {
			return i
		}
	}
	return m.clampCursor(m.cursor)
}

func (m Model) setStatus(s string) Model {
	m.status = s
	m.statusIsErr = false
	return m
}

func (m Model) setError(s string) Model {
	m.status = s
	m.statusIsErr = true
	return m
}

// View renders the flow view.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.mode == modeInsert {
		return m.insertMenu.Overlay()
	}
	if m.mode == modeHelp {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			m.helpView,
		)
	}

	statusLines := 0
	if m.cfg.UI.ShowStatusBar || m.mode == modeRename {
		statusLines = 1
	}

	paneHeight := max(m.height-statusLines, 3)
	content := canvas.Render(m.editor.Graph(), m.editor.RootID(), m.cursor, m.width-4)
	pane := styles.RenderWithTitleBorder(
		content,
		m.flowName,
		canvas.Summary(m.editor.Graph()),
		m.width, paneHeight,
		m.mode == modeBrowse,
	)

	if statusLines == 0 {
		return pane
	}
	return pane + "\n" + m.statusBar()
}

func (m Model) statusBar() string {
	if m.mode == modeRename {
		return m.renameInput.View()
	}

	left := m.status
	style := styles.StatusInfoStyle
	switch {
	case m.statusIsErr:
		style = styles.StatusErrorStyle
	case left == "" && m.cfg.UI.ShowHints:
		left = "j/k move · i insert · d delete · r rename · a add path · u undo · ? help · q quit"
		style = styles.StatusBarStyle
	}

	right := ""
	if m.dirty {
		right = styles.StatusErrorStyle.Render("unsaved")
	}

	line := style.Render(left)
	gap := m.width - lipgloss.Width(line) - lipgloss.Width(right)
	if gap < 1 {
		return line
	}
	return line + strings.Repeat(" ", gap) + right
}

const helpMarkdown = `# Stemma

Edit a workflow tree of action, branch, and end nodes.

## Moving around

| Key | Action |
|-----|--------|
| j / k | Move down / up |
| g / G | Jump to top / bottom |

## Editing

| Key | Action |
|-----|--------|
| i, enter | Insert a node into the selected edge |
| d | Delete the selected node |
| r | Rename the selected node |
| a | Add a path to the selected branch node |
| u | Undo |
| ctrl+r | Redo |
| s | Save now |

Press esc or q to close this help.
`

func (m Model) buildHelp() string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(m.width-4, 72)),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
