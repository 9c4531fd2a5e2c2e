package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// View renders the widget: a header line, the viewport-windowed rows, and a
// status line. All rows are handed to the viewport as content; the viewport
// owns which slice of them is on screen.
func (m Model) View() string {
	var sb strings.Builder

	if !m.headless {
		sb.WriteString(m.theme.Header.Render(m.headerLine()))
		sb.WriteString("\n")
	}

	if len(m.rows) == 0 {
		sb.WriteString(m.theme.Subtle.Render("  no entities"))
		sb.WriteString("\n")
		sb.WriteString(m.statusLine())
		return sb.String()
	}

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	return sb.String()
}

// syncViewport rebuilds the viewport content from the current rows and
// scrolls the minimum amount needed to keep the cursor row on screen.
func (m *Model) syncViewport() {
	lines := make([]string, len(m.rows))
	for i := range m.rows {
		lines[i] = m.renderRow(i)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	if m.viewport.Height <= 0 {
		return
	}
	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if m.cursor >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func (m Model) renderRow(i int) string {
	row := m.rows[i]
	node := row.Node

	var sb strings.Builder
	if i == m.cursor {
		sb.WriteString("▸ ")
	} else {
		sb.WriteString("  ")
	}
	sb.WriteString(strings.Repeat("  ", row.Depth))

	pins := m.selector.Pins()
	if m.selector.Options().ShowPins {
		switch {
		case pins.Pinned(node.ID):
			sb.WriteString("⚲ ")
		case pins.Visible(node.ID):
			sb.WriteString("◦ ")
		default:
			sb.WriteString("  ")
		}
	}

	label := node.Label
	if label == "" {
		label = node.ID
	}
	if m.selector.Options().ShowPrimaryFlag && node.Primary {
		label += " ★"
	}

	maxLabel := m.width - runewidth.StringWidth(sb.String()) - 2
	if maxLabel > 0 {
		label = truncate(label, maxLabel)
	}

	line := sb.String() + label

	style := m.theme.Row
	switch {
	case i == m.cursor:
		style = m.theme.Selected
	case node.ID == m.selector.Selected():
		style = m.theme.Active
	case pins.Pinned(node.ID):
		style = m.theme.Pinned
	}
	return style.Render(line)
}

func (m Model) headerLine() string {
	title := " lineage"
	if m.selector.HideNonPinned() {
		title += " · pinned only"
	}
	return title
}

func (m Model) statusLine() string {
	if m.statusMsg != "" {
		return m.theme.Subtle.Render(" " + m.statusMsg)
	}
	sel := m.selector.Selected()
	if sel == "" {
		sel = "none"
	}
	return m.theme.Subtle.Render(" selected: " + sel)
}

// truncate shortens a string to a visual cell width, appending an ellipsis.
// Uses go-runewidth to handle wide characters correctly.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth-1, "") + "…"
}
