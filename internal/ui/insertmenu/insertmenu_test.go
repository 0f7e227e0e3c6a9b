package insertmenu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/stemma/internal/flow"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew_PreselectsAction(t *testing.T) {
	assert.Equal(t, flow.KindAction, New().Selected())
}

func TestUpdate_Navigation(t *testing.T) {
	m := New()

	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, flow.KindBranch, m.Selected())

	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, flow.KindEnd, m.Selected())

	// Clamped at the bottom.
	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, flow.KindEnd, m.Selected())

	m, _ = m.Update(keyMsg("k"))
	assert.Equal(t, flow.KindBranch, m.Selected())
}

func TestUpdate_NavigationClampsAtTop(t *testing.T) {
	m := New()

	m, _ = m.Update(keyMsg("k"))
	assert.Equal(t, flow.KindAction, m.Selected())
}

func TestUpdate_EnterEmitsSelectMsg(t *testing.T) {
	m := New()
	m, _ = m.Update(keyMsg("j"))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(SelectMsg)
	require.True(t, ok)
	assert.Equal(t, flow.KindBranch, msg.Kind)
}

func TestUpdate_EscEmitsCancelMsg(t *testing.T) {
	_, cmd := New().Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	_, ok := cmd().(CancelMsg)
	assert.True(t, ok)
}

func TestView_ListsAllKinds(t *testing.T) {
	out := ansi.Strip(New().View())

	assert.Contains(t, out, "Insert Node")
	assert.Contains(t, out, "Action")
	assert.Contains(t, out, "Branch (True/False)")
	assert.Contains(t, out, "End")
	assert.Contains(t, out, ">")
}
