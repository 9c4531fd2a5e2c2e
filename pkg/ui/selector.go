// Package ui is the render layer over the selector core. It is a thin
// consumer: every state transition goes through pkg/tree, and the view only
// reads the resulting rows.
package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/linework/pkg/debug"
	"github.com/vanderheijden86/linework/pkg/model"
	"github.com/vanderheijden86/linework/pkg/tree"
)

// SelectionChangedMsg is emitted when the core's selection changes, carrying
// the new selected id ("" for none) and whether downstream propagation is
// requested.
type SelectionChangedMsg struct {
	ID        string
	Propagate bool
}

// GraphReplacedMsg hands the widget a fresh graph snapshot. The previous
// snapshot is discarded wholesale.
type GraphReplacedMsg struct {
	Graph *model.EntityGraph
}

// Model is the Bubble Tea model for the lineage selector widget.
type Model struct {
	selector *tree.Selector
	rows     []tree.Row
	cursor   int
	viewport viewport.Model
	theme    Theme
	width    int
	height   int
	headless bool

	statusMsg string

	// pending collects selection notifications raised by the core during
	// the current update, drained into messages before Update returns.
	// A shared pointer: the Model is copied by value through the Bubble
	// Tea loop while the core's callback closes over one queue.
	pending *[]SelectionChangedMsg
}

// NewModel creates the widget around a configured selector core.
func NewModel(opts tree.Options, theme Theme) Model {
	pending := &[]SelectionChangedMsg{}
	selector := tree.NewSelector(opts, func(id string, propagate bool) {
		// Runs synchronously inside selector calls, so this append is
		// safe in the single-threaded Bubble Tea loop.
		*pending = append(*pending, SelectionChangedMsg{ID: id, Propagate: propagate})
	})
	return Model{
		selector: selector,
		theme:    theme,
		pending:  pending,
	}
}

// Selector exposes the core for host wiring (initial value, exports).
func (m *Model) Selector() *tree.Selector {
	return m.selector
}

// SetHeadless enables compact mode: the header line is dropped and only the
// rows and status line render.
func (m *Model) SetHeadless(headless bool) {
	m.headless = headless
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the available dimensions for the widget.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2 // header + status line
	m.syncViewport()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.refreshRows()

	case GraphReplacedMsg:
		debug.Log("graph replaced: %d entities", msg.Graph.Count())
		m.selector.SetGraph(msg.Graph)
		m.refreshRows()

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.syncViewport()
		return m, tea.Batch(append([]tea.Cmd{cmd}, m.drainPending()...)...)
	}

	return m, tea.Batch(m.drainPending()...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case "g", "home":
		m.cursor = 0

	case "G", "end":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}

	case " ":
		if node := m.selectedNode(); node != nil {
			m.selector.TogglePin(node.ID)
			m.refreshRows()
		}

	case "enter":
		if node := m.selectedNode(); node != nil {
			m.selector.Select(node.ID)
		}

	case "p":
		m.selector.ToggleHideNonPinned()
		m.refreshRows()
		if m.selector.HideNonPinned() {
			m.statusMsg = "showing pinned only"
		} else {
			m.statusMsg = "showing all"
		}

	case "c":
		if node := m.selectedNode(); node != nil {
			if err := clipboard.WriteAll(node.ID); err != nil {
				m.statusMsg = fmt.Sprintf("clipboard copy failed: %v", err)
			} else {
				m.statusMsg = fmt.Sprintf("copied %s", node.ID)
			}
		}
	}

	return nil
}

// refreshRows recomputes the renderable rows and keeps the cursor in range.
func (m *Model) refreshRows() {
	m.rows = m.selector.Rows()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.syncViewport()
}

// selectedNode returns the node under the cursor, or nil.
func (m *Model) selectedNode() *model.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].Node
}

// drainPending converts queued selection notifications into commands.
func (m *Model) drainPending() []tea.Cmd {
	queued := *m.pending
	if len(queued) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(queued))
	for _, msg := range queued {
		msg := msg
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	*m.pending = nil
	return cmds
}
