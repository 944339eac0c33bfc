package cli

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphwidget/pkg/label"
	"github.com/matzehuels/graphwidget/pkg/widget"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// termNetwork - terminal engine instance
// =============================================================================

// termNetwork is a widget.Network drawn by the preview list. Pressing enter
// on a node is its double-click.
type termNetwork struct {
	container string

	mu        sync.Mutex
	handlers  []widget.DoubleClickHandler
	destroyed bool
}

// newTermNetwork is a widget.Factory for terminal previews.
func newTermNetwork(container string, nodes *label.Store, edges []label.RawEdge, opts widget.Options) (widget.Network, error) {
	return &termNetwork{container: container}, nil
}

func (n *termNetwork) Container() string { return n.container }

func (n *termNetwork) OnNodeDoubleClick(handler widget.DoubleClickHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = append(n.handlers, handler)
}

func (n *termNetwork) Destroy() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.destroyed = true
	n.handlers = nil
}

// activate dispatches a double-click on id.
func (n *termNetwork) activate(id label.NodeID) {
	n.mu.Lock()
	if n.destroyed {
		n.mu.Unlock()
		return
	}
	handlers := append([]widget.DoubleClickHandler{}, n.handlers...)
	n.mu.Unlock()

	for _, h := range handlers {
		h(id)
	}
}

// =============================================================================
// NodeListModel - Interactive label preview
// =============================================================================

// NodeListModel is the bubbletea model for the label preview.
type NodeListModel struct {
	Nodes  []label.DisplayNode
	Cursor int
	Height int
	Offset int

	store   *label.Store
	network *termNetwork
}

// newNodeListModel creates a preview of the widget h, which must have been
// built with newTermNetwork.
func newNodeListModel(h *widget.Handle) NodeListModel {
	return NodeListModel{
		Nodes:   h.Nodes.All(),
		Height:  10,
		store:   h.Nodes,
		network: h.Network.(*termNetwork),
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if len(m.Nodes) == 0 {
				return m, nil
			}
			m.network.activate(m.Nodes[m.Cursor].ID)
			m.Nodes = m.store.All()
		}
	case tea.WindowSizeMsg:
		m.Height = max((msg.Height-6)/3, 3)
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Node Labels"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (no nodes)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Nodes))
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		state := "short"
		if !n.IsShort {
			state = "long"
		}
		for j, line := range strings.Split(n.Label, "\n") {
			prefix := "  "
			if j == 0 {
				prefix = cursor
			}
			b.WriteString(style.Render(prefix + line))
			if j == 0 {
				b.WriteString(" " + listDimStyle.Render("["+state+"]"))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))
	return b.String()
}
