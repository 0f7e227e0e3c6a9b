// Package styles contains Lip Gloss style definitions shared across the
// stemma UI.
package styles

import "github.com/charmbracelet/lipgloss"

// Color tokens. Adaptive pairs pick the variant for the terminal's
// background.
var (
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#E8E8E8"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#444444"}
	BorderFocusedColor = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#9D79FF"}

	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#9D79FF"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#9D79FF"}

	StatusInfoColor  = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#54A0FF"}
	StatusErrorColor = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF8787"}

	// Per-kind node colors.
	ActionColor = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#54A0FF"}
	BranchColor = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
	EndColor    = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#BBBBBB"}
)

// Shared styles.
var (
	SelectionIndicatorStyle = lipgloss.NewStyle().Foreground(BorderFocusedColor).Bold(true)
	SelectedLineStyle       = lipgloss.NewStyle().Bold(true)
	MutedStyle              = lipgloss.NewStyle().Foreground(TextMutedColor)
	ConnectorStyle          = lipgloss.NewStyle().Foreground(BorderDefaultColor)
	EdgeLabelStyle          = lipgloss.NewStyle().Foreground(TextMutedColor).Italic(true)
	StatusBarStyle          = lipgloss.NewStyle().Foreground(TextMutedColor)
	StatusErrorStyle        = lipgloss.NewStyle().Foreground(StatusErrorColor)
	StatusInfoStyle         = lipgloss.NewStyle().Foreground(StatusInfoColor)
)

// KindStyle returns the style for a node kind marker.
func KindStyle(kind string) lipgloss.Style {
	switch kind {
	case "action":
		return lipgloss.NewStyle().Foreground(ActionColor)
	case "branch":
		return lipgloss.NewStyle().Foreground(BranchColor)
	case "end":
		return lipgloss.NewStyle().Foreground(EndColor)
	default:
		return lipgloss.NewStyle().Foreground(TextPrimaryColor)
	}
}
