// Package command implements the bottom bar of the TUI: a passive status
// line that a ":" turns into a prompt with a verb palette. The palette
// knows the gantt command set and narrows as the user types.
package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/gantt/pkg/tui/events"
	"tableflip.dev/gantt/pkg/tui/theme"
	overlaymgr "tableflip.dev/gantt/pkg/tui/ui/overlay"
)

// Overlay is the contract modal panes (task form, help) satisfy.
type Overlay interface {
	Init() tea.Cmd
	Update(tea.Msg) (Overlay, tea.Cmd)
	View() (string, *tea.Cursor)
	SetSize(width, height int)
}

// Verb is one palette entry: a command name and its one-line help.
type Verb struct {
	Name string
	Help string
}

// Options configures the command bar.
type Options struct {
	ID           events.ComponentID
	PromptPrefix string
	Placeholder  string
	StatusText   string
}

// paletteRows caps the verb palette height; the gantt verb set is small
// enough that scrolling inside the palette is not worth its complexity.
const paletteRows = 8

// Model renders the status/command bar and the verb palette above it.
type Model struct {
	id    events.ComponentID
	theme theme.FooterTheme

	width         int
	height        int
	contentHeight int

	content       string
	contentCursor *tea.Cursor
	status        string

	input        bool
	prompt       textinput.Model
	promptPrefix string

	verbs    []Verb
	matches  []Verb
	selected int
	typed    string
}

// NewModel constructs the command bar.
func NewModel(opts Options) *Model {
	prompt := textinput.New()
	prompt.Placeholder = opts.Placeholder
	prompt.Prompt = ""

	id := opts.ID
	if id == "" {
		id = events.ComponentID("command")
	}
	return &Model{
		id:           id,
		theme:        theme.Default().Footer,
		status:       opts.StatusText,
		prompt:       prompt,
		promptPrefix: opts.PromptPrefix,
		selected:     -1,
	}
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize configures the viewport. The bar claims the last line; content
// gets the rest.
func (m *Model) SetSize(width, height int) {
	if width <= 0 {
		width = 1
	}
	if height <= 1 {
		height = 2
	}
	m.width = width
	m.height = height
	m.contentHeight = height - 1

	promptWidth := width - len(m.promptPrefix)
	if promptWidth < 1 {
		promptWidth = 1
	}
	m.prompt.SetWidth(promptWidth)
}

// SetContent stores the view rendered above the bar.
func (m *Model) SetContent(view string, cursor *tea.Cursor) {
	m.content = view
	m.contentCursor = nil
	if cursor != nil {
		c := *cursor
		m.contentCursor = &c
	}
}

// SetStatus updates the passive status text.
func (m *Model) SetStatus(text string) {
	m.status = text
}

// SetVerbs configures the palette entries.
func (m *Model) SetVerbs(verbs []Verb) {
	m.verbs = append([]Verb(nil), verbs...)
	m.filter(m.prompt.Value())
}

// BeginInput switches the bar into prompt mode.
func (m *Model) BeginInput(initial string) tea.Cmd {
	m.input = true
	m.prompt.SetValue(initial)
	m.prompt.CursorEnd()
	m.typed = initial
	m.filter(initial)
	return tea.Batch(m.prompt.Focus(),
		events.CommandChangeCmd(m.id, initial, events.CommandModeInput))
}

// ExitInput returns the bar to passive mode.
func (m *Model) ExitInput() tea.Cmd {
	m.input = false
	m.prompt.Blur()
	m.matches = nil
	m.selected = -1
	m.typed = ""
	return events.CommandChangeCmd(m.id, "", events.CommandModePassive)
}

// InInputMode reports whether the prompt is active.
func (m *Model) InInputMode() bool { return m.input }

// Value returns the current prompt contents.
func (m *Model) Value() string { return m.prompt.Value() }

// filter narrows the palette to verbs matching the typed value: prefix
// matches first, then substring matches.
func (m *Model) filter(value string) {
	m.selected = -1
	if !m.input {
		m.matches = nil
		return
	}
	q := strings.ToLower(strings.TrimSpace(value))
	if q == "" {
		m.matches = append(m.matches[:0], m.verbs...)
		return
	}
	m.matches = m.matches[:0]
	for _, v := range m.verbs {
		if strings.HasPrefix(strings.ToLower(v.Name), q) {
			m.matches = append(m.matches, v)
		}
	}
	for _, v := range m.verbs {
		name := strings.ToLower(v.Name)
		if !strings.HasPrefix(name, q) && strings.Contains(name, q) {
			m.matches = append(m.matches, v)
		}
	}
}

// cycle steps the palette selection and writes the selected verb into the
// prompt. Stepping past either end restores what the user typed.
func (m *Model) cycle(delta int) bool {
	if !m.input || len(m.matches) == 0 {
		return false
	}
	next := m.selected + delta
	switch {
	case m.selected == -1 && delta > 0:
		next = 0
	case m.selected == -1 && delta < 0:
		next = len(m.matches) - 1
	case next < -1:
		next = len(m.matches) - 1
	case next >= len(m.matches):
		next = -1
	}
	m.selected = next
	if next == -1 {
		m.prompt.SetValue(m.typed)
	} else {
		m.prompt.SetValue(m.matches[next].Name)
	}
	m.prompt.CursorEnd()
	return true
}

// Update routes prompt input.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyPressMsg)
	if !isKey {
		return m, nil
	}

	if !m.input {
		if key.String() == ":" {
			return m, m.BeginInput("")
		}
		return m, nil
	}

	switch key.String() {
	case "esc":
		if m.selected != -1 {
			m.selected = -1
			m.prompt.SetValue(m.typed)
			m.prompt.CursorEnd()
			return m, nil
		}
		return m, tea.Batch(m.ExitInput(), events.CommandCancelCmd(m.id))
	case "enter":
		value := strings.TrimSpace(m.prompt.Value())
		cmds := []tea.Cmd{m.ExitInput()}
		if value != "" {
			m.status = value
			cmds = append(cmds, events.CommandSubmitCmd(m.id, value))
		}
		return m, tea.Batch(cmds...)
	case "tab", "down":
		m.cycle(1)
		return m, nil
	case "shift+tab", "up":
		m.cycle(-1)
		return m, nil
	}

	prev := m.prompt.Value()
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	if value := m.prompt.Value(); value != prev {
		m.typed = value
		m.filter(value)
		return m, tea.Batch(cmd, events.CommandChangeCmd(m.id, value, events.CommandModeInput))
	}
	return m, cmd
}

// View composes content, palette, and the bar line.
func (m *Model) View() (string, *tea.Cursor) {
	content := m.content
	if palette := m.renderPalette(); palette != "" {
		content = overlaymgr.Place(content, m.width, m.contentHeight, palette,
			overlaymgr.Anchor{Horizontal: lipgloss.Left, Vertical: lipgloss.Bottom})
	} else {
		content = strings.Join(clampLines(content, m.contentHeight), "\n")
	}

	bar, barCursor := m.renderBar()
	cursor := m.contentCursor
	if barCursor != nil {
		cursor = barCursor
	}
	if content == "" {
		return bar, cursor
	}
	return content + "\n" + bar, cursor
}

func (m *Model) renderPalette() string {
	if !m.input || len(m.matches) == 0 {
		return ""
	}
	count := len(m.matches)
	if count > paletteRows {
		count = paletteRows
	}
	if count > m.contentHeight {
		count = m.contentHeight
	}
	// Keep the selected verb visible when the set overflows the palette.
	start := 0
	if m.selected >= count {
		start = m.selected - count + 1
	}

	rows := make([]string, 0, count)
	width := 0
	for i := start; i < start+count && i < len(m.matches); i++ {
		v := m.matches[i]
		name, help := m.theme.CommandName, m.theme.CommandDescription
		marker := "  "
		if i == m.selected {
			name, help = m.theme.CommandSelectedName, m.theme.CommandSelectedDesc
			marker = "> "
		}
		line := marker + name.Render(v.Name)
		if v.Help != "" {
			line += "  " + help.Render(v.Help)
		}
		rows = append(rows, line)
		if w := ansi.PrintableRuneWidth(line); w > width {
			width = w
		}
	}
	if width > m.width {
		width = m.width
	}
	pad := lipgloss.NewStyle().Width(width)
	for i := range rows {
		rows[i] = pad.Render(rows[i])
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderBar() (string, *tea.Cursor) {
	if m.input {
		line := m.promptPrefix + m.prompt.View()
		var cursor *tea.Cursor
		if c := m.prompt.Cursor(); c != nil {
			cc := *c
			cc.X += len(m.promptPrefix)
			cc.Y = m.contentHeight
			cursor = &cc
		}
		return padBar(line, m.width), cursor
	}

	status := m.status
	if status == "" {
		status = "Ready"
	}
	line := lipgloss.NewStyle().Width(m.width).Align(lipgloss.Right).
		Render(m.theme.Status.Render(status))
	return padBar(line, m.width), nil
}

func clampLines(body string, height int) []string {
	lines := strings.Split(body, "\n")
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func padBar(s string, width int) string {
	w := ansi.PrintableRuneWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
