// Package help renders the keybinding overlay inside a bordered viewport.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/gantt/pkg/tui/components/command"
)

var helpSections = []struct {
	title string
	keys  [][2]string
}{
	{
		title: "Navigate",
		keys: [][2]string{
			{"up / k", "previous row"},
			{"down / j", "next row"},
			{"left / right", "scroll the timeline"},
			{"enter", "select task, toggle heading"},
			{"space", "collapse or expand"},
		},
	},
	{
		title: "Timeline",
		keys: [][2]string{
			{"d", "day zoom"},
			{"w", "week zoom"},
			{"m", "month zoom"},
			{"drag bar", "move the plan schedule"},
			{"drag bar edge", "resize the plan schedule"},
			{"right-drag", "move the actual schedule"},
		},
	},
	{
		title: "Edit",
		keys: [][2]string{
			{"a", "add a task"},
			{"A", "add a group"},
			{"x", "delete the selected task"},
			{"+ / -", "nudge percent complete"},
			{"L", "link selected task to a successor"},
			{"esc", "cancel drag or overlay"},
		},
	},
	{
		title: "General",
		keys: [][2]string{
			{":", "open the command prompt"},
			{"?", "toggle this help"},
			{"q", "quit"},
		},
	},
}

// Model renders the help overlay inside a bordered viewport.
type Model struct {
	viewport viewport.Model
	width    int
	height   int

	frame lipgloss.Style
	title lipgloss.Style
}

// New constructs a help overlay model sized to the provided bounds.
func New(width, height int) *Model {
	vp := viewport.New(
		viewport.WithWidth(max(width, 1)),
		viewport.WithHeight(max(height, 1)),
	)
	vp.MouseWheelEnabled = true
	model := &Model{
		viewport: vp,
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Margin(0).
			Padding(0),
		title: lipgloss.NewStyle().Bold(true),
	}
	model.SetSize(width, height)
	return model
}

// Init implements command.Overlay.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles Bubble Tea messages and forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) (command.Overlay, tea.Cmd) {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

// View renders the help content inside a rounded frame.
func (m *Model) View() (string, *tea.Cursor) {
	return m.frame.Render(m.viewport.View()), nil
}

// SetSize adjusts the overlay to the given bounds.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 20)
	m.height = max(height, 5)
	frameW, frameH := m.frame.GetFrameSize()
	m.viewport.SetWidth(m.width - frameW)
	m.viewport.SetHeight(m.height - frameH)
	m.viewport.SetContent(m.render())
}

func (m *Model) render() string {
	var b strings.Builder
	for i, sec := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.title.Render(sec.title))
		b.WriteString("\n")
		for _, kv := range sec.keys {
			b.WriteString("  ")
			b.WriteString(pad(kv[0], 16))
			b.WriteString(kv[1])
			b.WriteString("\n")
		}
	}
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
