package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderWithTitleBorder renders content in a rounded border with titles
// embedded in the top edge. leftTitle appears on the left, rightTitle on
// the right; pass "" to omit either. The border uses BorderFocusedColor
// when focused, BorderDefaultColor otherwise.
func RenderWithTitleBorder(content, leftTitle, rightTitle string, width, height int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusedColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(OverlayTitleColor)

	innerWidth := max(width-2, 1)

	topBorder := buildTitleTopBorder(leftTitle, rightTitle, innerWidth, borderStyle, titleStyle)
	bottomBorder := borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, innerWidth) + borderBottomRight)

	contentHeight := max(height-2, 1)

	// Let lipgloss constrain the content, then pad each line so the right
	// border stays aligned.
	contentStyle := lipgloss.NewStyle().Width(innerWidth).Height(contentHeight).MaxHeight(contentHeight)
	constrainedContent := contentStyle.Render(content)

	contentLines := strings.Split(constrainedContent, "\n")
	paddedLines := make([]string, contentHeight)
	for i := range contentHeight {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		if lineWidth := lipgloss.Width(line); lineWidth < innerWidth {
			line += strings.Repeat(" ", innerWidth-lineWidth)
		}
		paddedLines[i] = borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical)
	}

	var result strings.Builder
	result.WriteString(topBorder)
	result.WriteString("\n")
	result.WriteString(strings.Join(paddedLines, "\n"))
	result.WriteString("\n")
	result.WriteString(bottomBorder)
	return result.String()
}

// buildTitleTopBorder creates the top border with optional titles on both
// sides. Format: ╭─ LeftTitle ─────────────────── RightTitle ─╮
func buildTitleTopBorder(leftTitle, rightTitle string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	if innerWidth < 1 {
		return borderStyle.Render(borderTopLeft + borderTopRight)
	}
	if leftTitle == "" && rightTitle == "" {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
	}

	leftWidth := lipgloss.Width(leftTitle)
	rightWidth := lipgloss.Width(rightTitle)

	// "─ Left " + middle + " Right ─"; drop titles that cannot fit.
	minRequired := leftWidth + rightWidth + 7
	if innerWidth < minRequired {
		if leftWidth+4 <= innerWidth && leftTitle != "" {
			rightTitle, rightWidth = "", 0
		} else {
			return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, innerWidth) + borderTopRight)
		}
	}

	var middle int
	switch {
	case leftTitle != "" && rightTitle != "":
		middle = innerWidth - leftWidth - rightWidth - 6
	case leftTitle != "":
		middle = innerWidth - leftWidth - 3
	default:
		middle = innerWidth - rightWidth - 3
	}
	middle = max(middle, 1)

	var b strings.Builder
	b.WriteString(borderStyle.Render(borderTopLeft))
	if leftTitle != "" {
		b.WriteString(borderStyle.Render(borderHorizontal + " "))
		b.WriteString(titleStyle.Render(leftTitle))
		b.WriteString(borderStyle.Render(" "))
	}
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, middle)))
	if rightTitle != "" {
		b.WriteString(borderStyle.Render(" "))
		b.WriteString(titleStyle.Render(rightTitle))
		b.WriteString(borderStyle.Render(" " + borderHorizontal))
	}
	b.WriteString(borderStyle.Render(borderTopRight))
	return b.String()
}
