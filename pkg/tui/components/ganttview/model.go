// Package ganttview renders the interactive schedule pane: the task name
// column, the zoomable timeline header, plan and actual bars, dependency
// connectors, and pointer-driven bar dragging.
package ganttview

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/gantt/pkg/curve"
	"tableflip.dev/gantt/pkg/drag"
	"tableflip.dev/gantt/pkg/glyph"
	"tableflip.dev/gantt/pkg/rowindex"
	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/timeline"
	"tableflip.dev/gantt/pkg/timeutil"
	"tableflip.dev/gantt/pkg/tree"
	"tableflip.dev/gantt/pkg/tui/events"
	"tableflip.dev/gantt/pkg/tui/theme"
)

const (
	headerHeight = 2
	minCellWidth = 2
	defaultWidth = 120
	nameColumn   = 30
)

// Model is the schedule pane component.
type Model struct {
	id    events.ComponentID
	theme theme.GanttTheme

	project events.ProjectRef
	idx     *tree.Index
	rows    []rowindex.Row
	byTask  map[string]int

	weights  curve.Weights
	catColor map[string]color.Color

	collapsed rowindex.Collapse
	updating  map[string]bool

	mode  timeline.ViewMode
	scale timeline.Scale

	width   int
	height  int
	cursor  int
	scroll  int
	hscroll int

	drag drag.State

	focused bool
}

// NewModel constructs an empty schedule pane.
func NewModel(id events.ComponentID, th theme.GanttTheme) *Model {
	if id == "" {
		id = events.ComponentID("ganttview")
	}
	return &Model{
		id:        id,
		theme:     th,
		collapsed: rowindex.Collapse{},
		updating:  map[string]bool{},
		mode:      timeline.ModeDay,
		width:     defaultWidth,
		height:    24,
	}
}

// SetTasks replaces the schedule content and rebuilds the visible rows.
func (m *Model) SetTasks(project events.ProjectRef, tasks []*task.Task) {
	m.project = project
	m.idx = tree.Build(tasks)
	m.weights, _ = curve.LeafWeights(m.idx.Leaves())
	groups := m.idx.Groups()
	colors := theme.CategoryColors(len(groups))
	m.catColor = make(map[string]color.Color, len(groups))
	for i, g := range groups {
		m.catColor[g.Name] = colors[i]
	}
	m.rebuildRows()
	m.rebuildScale()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureScroll()
}

// SetSize configures the pane dimensions.
func (m *Model) SetSize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
	m.rebuildScale()
	m.ensureScroll()
}

// SetViewMode switches the timeline zoom level.
func (m *Model) SetViewMode(mode timeline.ViewMode) {
	m.mode = mode
	m.rebuildScale()
}

// ViewMode returns the current zoom level.
func (m *Model) ViewMode() timeline.ViewMode {
	return m.mode
}

// Collapsed returns the collapsed row keys, sorted for stable persistence.
func (m *Model) Collapsed() []string {
	keys := make([]string, 0, len(m.collapsed))
	for k := range m.collapsed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetCollapsed replaces the collapse set, usually from saved preferences.
func (m *Model) SetCollapsed(keys []string) {
	m.collapsed = rowindex.Collapse{}
	for _, k := range keys {
		m.collapsed[k] = true
	}
	if m.idx != nil {
		m.rebuildRows()
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
		m.ensureScroll()
	}
}

// SetUpdating flags a row as having an in-flight store write.
func (m *Model) SetUpdating(id string, inFlight bool) {
	if inFlight {
		m.updating[id] = true
		return
	}
	delete(m.updating, id)
}

// Focus marks the pane as receiving key input.
func (m *Model) Focus() { m.focused = true }

// Blur releases key input and cancels any in-flight drag.
func (m *Model) Blur() {
	m.focused = false
	m.drag = m.drag.Cancel()
}

// SelectedTask returns the task under the cursor, if the cursor sits on a
// task row.
func (m *Model) SelectedTask() *task.Task {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].Task
}

// SelectTask moves the cursor to the row holding id, expanding nothing.
func (m *Model) SelectTask(id string) {
	if at, ok := m.byTask[id]; ok {
		m.cursor = at
		m.ensureScroll()
	}
}

// Dragging reports whether a bar drag is in flight.
func (m *Model) Dragging() bool {
	return m.drag.Active
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles key and mouse input.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	case tea.MouseClickMsg:
		return m.handleClick(msg)
	case tea.MouseMotionMsg:
		if m.drag.Active {
			m.drag = m.drag.Tick(m.timelineX(msg.X))
		}
		return m, nil
	case tea.MouseReleaseMsg:
		return m.handleRelease()
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.moveCursor(-1)
		case tea.MouseWheelDown:
			m.moveCursor(1)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
		return m, m.highlightCmd()
	case "down", "j":
		m.moveCursor(1)
		return m, m.highlightCmd()
	case "left", "h":
		m.hscroll -= m.scale.CellWidth
		if m.hscroll < 0 {
			m.hscroll = 0
		}
		return m, nil
	case "right", "l":
		m.hscroll += m.scale.CellWidth
		return m, nil
	case "enter":
		if t := m.SelectedTask(); t != nil && m.idx.IsLeaf(t.ID) {
			return m, func() tea.Msg {
				return events.TaskSelectMsg{
					Component: m.id,
					Project:   m.project,
					Task:      refOf(t),
				}
			}
		}
		m.toggleCollapse()
		return m, nil
	case " ":
		m.toggleCollapse()
		return m, nil
	case "d":
		m.SetViewMode(timeline.ModeDay)
		return m, nil
	case "w":
		m.SetViewMode(timeline.ModeWeek)
		return m, nil
	case "m":
		m.SetViewMode(timeline.ModeMonth)
		return m, nil
	case "esc":
		if m.drag.Active {
			m.drag = m.drag.Cancel()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleClick(msg tea.MouseClickMsg) (*Model, tea.Cmd) {
	row := m.rowAt(msg.Y)
	if row < 0 {
		return m, nil
	}
	m.cursor = row
	m.ensureScroll()

	r := m.rows[row]
	if msg.X < m.nameWidth() {
		// Clicking the name column toggles headings and groups.
		if r.Kind != rowindex.KindTask || (r.Task != nil && m.idx.HasChildren(r.Task.ID)) {
			m.toggleCollapse()
		}
		return m, m.highlightCmd()
	}

	t := r.Task
	if t == nil || m.updating[t.ID] {
		return m, m.highlightCmd()
	}

	bar, start, end, ok := m.barAt(t, msg)
	if !ok {
		return m, m.highlightCmd()
	}
	kind := m.gestureAt(start, end, msg)
	m.drag = drag.Begin(m.scale, kind, bar, t.ID, start, end, m.timelineX(msg.X))
	return m, m.highlightCmd()
}

func (m *Model) handleRelease() (*Model, tea.Cmd) {
	if !m.drag.Active {
		return m, nil
	}
	commit, ok := m.drag.Release()
	m.drag = m.drag.Cancel()
	if !ok {
		return m, nil
	}
	t, found := m.idx.Task(commit.TaskID)
	if !found {
		return m, nil
	}
	return m, events.DragCommitCmd(m.id, m.project, refOf(t), commit)
}

// barAt resolves which bar the pointer hit: the actual bar when the click
// lands on it, the plan bar otherwise.
func (m *Model) barAt(t *task.Task, msg tea.MouseClickMsg) (drag.Bar, time.Time, time.Time, bool) {
	px := m.timelineX(msg.X)
	if t.ActualStart != nil {
		aEnd := m.actualEnd(t)
		x, w := m.scale.BarSpan(t.ActualStart.Time, aEnd)
		if px >= x && px < x+w && msg.Button == tea.MouseRight {
			return drag.BarActual, t.ActualStart.Time, aEnd, true
		}
	}
	if !t.HasValidPlan() {
		return drag.BarPlan, time.Time{}, time.Time{}, false
	}
	x, w := m.scale.BarSpan(t.PlanStart.Time, t.PlanEnd.Time)
	if px >= x && px < x+w {
		return drag.BarPlan, t.PlanStart.Time, t.PlanEnd.Time, true
	}
	return drag.BarPlan, time.Time{}, time.Time{}, false
}

// gestureAt picks resize over move when the pointer lands on the first or
// last cell of the bar.
func (m *Model) gestureAt(start, end time.Time, msg tea.MouseClickMsg) drag.Kind {
	px := m.timelineX(msg.X)
	x, w := m.scale.BarSpan(start, end)
	cell := float64(m.scale.CellWidth)
	if w > 2*cell {
		if px < x+cell {
			return drag.KindResizeStart
		}
		if px >= x+w-cell {
			return drag.KindResizeEnd
		}
	}
	return drag.KindMove
}

// View renders the pane.
func (m *Model) View() string {
	if m.idx == nil || len(m.rows) == 0 {
		return m.theme.Axis.Render("no tasks scheduled")
	}

	var b strings.Builder
	m.renderHeader(&b)

	visible := m.height - headerHeight
	if visible < 1 {
		visible = 1
	}
	last := m.scroll + visible - 1
	if last >= len(m.rows) {
		last = len(m.rows) - 1
	}
	for i := m.scroll; i <= last; i++ {
		b.WriteString(m.renderRow(i))
		if i < last {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderHeader(b *strings.Builder) {
	tw := m.timelineWidth()

	top := make([]rune, tw)
	for i := range top {
		top[i] = ' '
	}
	for _, h := range m.scale.Headers() {
		at := int(m.scale.DateToOffset(h.Start)) - m.hscroll
		for j, r := range []rune(h.Label) {
			if at+j >= 0 && at+j < tw {
				top[at+j] = r
			}
		}
	}
	b.WriteString(strings.Repeat(" ", m.nameWidth()))
	b.WriteString(m.theme.Axis.Render(string(top)))
	b.WriteString("\n")

	bottom := make([]rune, tw)
	for i := range bottom {
		bottom[i] = ' '
	}
	todayAt := -1
	for _, c := range m.scale.Cells() {
		at := int(m.scale.DateToOffset(c.Date)) - m.hscroll
		if c.Today {
			todayAt = at
		}
		label := []rune(c.Label)
		r := label[len(label)-1]
		if at >= 0 && at < tw {
			bottom[at] = r
		}
	}
	b.WriteString(strings.Repeat(" ", m.nameWidth()))
	line := string(bottom)
	if todayAt >= 0 && todayAt < tw {
		runes := []rune(line)
		line = string(runes[:todayAt]) +
			m.theme.Today.Render(string(runes[todayAt])) +
			string(runes[todayAt+1:])
	}
	b.WriteString(m.theme.Axis.Render(line))
	b.WriteString("\n")
}

func (m *Model) renderRow(i int) string {
	r := m.rows[i]
	name := m.rowLabel(r)
	cells := m.paintTimeline(r)

	selected := i == m.cursor
	line := pad(name, m.nameWidth()) + cells
	switch {
	case r.Task != nil && m.updating[r.Task.ID]:
		return m.theme.RowUpdating.Render(line)
	case selected && m.focused:
		return m.theme.RowSelected.Render(pad(name, m.nameWidth())) + cells
	case r.Kind != rowindex.KindTask:
		return m.theme.Heading.Render(pad(name, m.nameWidth())) + cells
	default:
		return line
	}
}

func (m *Model) rowLabel(r rowindex.Row) string {
	indent := strings.Repeat("  ", r.Depth)
	switch r.Kind {
	case rowindex.KindCategory:
		return indent + m.collapseSig(r.Key()) + " " + r.Category
	case rowindex.KindSubcategory:
		return indent + m.collapseSig(r.Key()) + " " + r.Subcategory
	case rowindex.KindSubsubcategory:
		return indent + m.collapseSig(r.Key()) + " " + r.Subsubcategory
	default:
		t := r.Task
		if t == nil {
			return indent
		}
		status := glyph.ForStatus(string(t.Status)).Symbol
		if m.idx.HasChildren(t.ID) {
			// Groups report their leaf roll-up, not authored fields.
			s := curve.GroupSummary(m.idx, t.ID, m.weights)
			return fmt.Sprintf("%s%s %s %s %.0f%%",
				indent, m.collapseSig(t.ID), status, t.Name, s.AvgProgress)
		}
		return fmt.Sprintf("%s  %s %s %d%%", indent, status, t.Name, t.Progress)
	}
}

func (m *Model) collapseSig(key string) string {
	if m.collapsed[key] {
		return glyph.CollapsedSig
	}
	return glyph.ExpandedSig
}

// paintTimeline draws one row's bar lane: weekend shading, group spans,
// plan and actual bars, connectors, and the live drag preview.
func (m *Model) paintTimeline(r rowindex.Row) string {
	tw := m.timelineWidth()
	lane := make([]rune, tw)
	for i := range lane {
		lane[i] = ' '
	}
	if m.mode == timeline.ModeDay {
		for _, c := range m.scale.Cells() {
			if !c.Weekend {
				continue
			}
			at := int(m.scale.DateToOffset(c.Date)) - m.hscroll
			if at >= 0 && at < tw {
				lane[at] = '·'
			}
		}
	}

	t := r.Task
	if t == nil {
		return m.theme.Axis.Render(string(lane))
	}

	group := m.idx.HasChildren(t.ID)
	planStart, planEnd := t.PlanStart.Time, t.PlanEnd.Time
	hasPlan := t.HasValidPlan()
	if group {
		// A group's bar spans its leaf descendants, whatever the group
		// record itself says.
		s := curve.GroupSummary(m.idx, t.ID, m.weights)
		planStart, planEnd = s.Start.Time, s.End.Time
		hasPlan = !s.Start.IsZero() && !s.End.IsZero()
	}
	actualStart, actualEnd := time.Time{}, time.Time{}
	if t.ActualStart != nil {
		actualStart, actualEnd = t.ActualStart.Time, m.actualEnd(t)
	}

	preview := m.drag.Active && m.drag.TaskID == t.ID
	if preview {
		if m.drag.Bar == drag.BarActual {
			actualStart, actualEnd = m.drag.Preview.Start, m.drag.Preview.End
		} else {
			planStart, planEnd = m.drag.Preview.Start, m.drag.Preview.End
		}
	}

	if hasPlan || preview {
		bar := glyph.PlanBar
		if group {
			bar = glyph.GroupBar
		}
		m.paint(lane, planStart, planEnd, []rune(bar)[0])
		if group {
			m.paintCap(lane, planStart, []rune(glyph.GroupCapL)[0])
			m.paintCap(lane, planEnd, []rune(glyph.GroupCapR)[0])
		}
	}
	if !actualStart.IsZero() {
		m.paint(lane, actualStart, actualEnd, []rune(glyph.ActualBar)[0])
	}
	for _, pred := range t.Predecessors {
		if _, ok := m.idx.Task(pred); ok && hasPlan {
			at := int(m.scale.DateToOffset(planStart)) - m.hscroll - 1
			if at >= 0 && at < tw {
				lane[at] = []rune(glyph.ConnectorIn)[0]
			}
		}
	}

	rendered := string(lane)
	switch {
	case preview:
		return m.theme.DragPreview.Render(rendered)
	case !actualStart.IsZero():
		return m.theme.ActualBar.Render(rendered)
	default:
		return m.planBarStyle(r.Category).Render(rendered)
	}
}

// planBarStyle tints the plan bar per category so adjacent categories read
// apart at a glance.
func (m *Model) planBarStyle(category string) lipgloss.Style {
	if c, ok := m.catColor[category]; ok && c != nil {
		return m.theme.BarStyle(c)
	}
	return m.theme.PlanBar
}

func (m *Model) paint(lane []rune, from, to time.Time, r rune) {
	if from.IsZero() || to.IsZero() {
		return
	}
	x, w := m.scale.BarSpan(from, to)
	a := int(x) - m.hscroll
	bWidth := int(w)
	if bWidth < 1 {
		bWidth = 1
	}
	for i := a; i < a+bWidth; i++ {
		if i >= 0 && i < len(lane) {
			lane[i] = r
		}
	}
}

func (m *Model) paintCap(lane []rune, at time.Time, r rune) {
	i := int(m.scale.DateToOffset(at)) - m.hscroll
	if i >= 0 && i < len(lane) {
		lane[i] = r
	}
}

func (m *Model) actualEnd(t *task.Task) time.Time {
	if t.ActualEnd != nil {
		return t.ActualEnd.Time
	}
	return timeutil.Midnight(time.Now())
}

func (m *Model) toggleCollapse() {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return
	}
	r := m.rows[m.cursor]
	if r.Kind == rowindex.KindTask && (r.Task == nil || !m.idx.HasChildren(r.Task.ID)) {
		return
	}
	m.collapsed.Toggle(r.Key())
	m.rebuildRows()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.ensureScroll()
}

func (m *Model) rebuildRows() {
	if m.idx == nil {
		m.rows, m.byTask = nil, nil
		return
	}
	m.rows, m.byTask = rowindex.Build(m.idx, m.collapsed)
}

func (m *Model) rebuildScale() {
	start, end := m.planWindow()
	cells := len(timeline.Scale{Start: start, End: end, Mode: m.mode, CellWidth: 1}.Cells())
	width := timeline.FitCellWidth(m.timelineWidth(), cells, minCellWidth)
	m.scale = timeline.Scale{Start: start, End: end, Mode: m.mode, CellWidth: width}
}

// planWindow is the union of all valid plan and actual intervals, padded a
// day on each side so bars never touch the pane edge.
func (m *Model) planWindow() (time.Time, time.Time) {
	now := timeutil.Midnight(time.Now())
	min, max := time.Time{}, time.Time{}
	if m.idx != nil {
		for _, t := range m.idx.All() {
			if t.HasValidPlan() {
				if min.IsZero() || t.PlanStart.Time.Before(min) {
					min = t.PlanStart.Time
				}
				if max.IsZero() || t.PlanEnd.Time.After(max) {
					max = t.PlanEnd.Time
				}
			}
			if t.ActualStart != nil {
				if min.IsZero() || t.ActualStart.Time.Before(min) {
					min = t.ActualStart.Time
				}
				if end := m.actualEnd(t); max.IsZero() || end.After(max) {
					max = end
				}
			}
		}
	}
	if min.IsZero() {
		min, max = now, timeutil.AddDays(now, 27)
	}
	return timeutil.AddDays(min, -1), timeutil.AddDays(max, 1)
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.ensureScroll()
}

func (m *Model) ensureScroll() {
	visible := m.height - headerHeight
	if visible < 1 {
		visible = 1
	}
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+visible {
		m.scroll = m.cursor - visible + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m *Model) highlightCmd() tea.Cmd {
	t := m.SelectedTask()
	if t == nil {
		return nil
	}
	return func() tea.Msg {
		return events.TaskHighlightMsg{
			Component: m.id,
			Project:   m.project,
			Task:      refOf(t),
		}
	}
}

func (m *Model) rowAt(y int) int {
	i := m.scroll + y - headerHeight
	if i < 0 || i >= len(m.rows) {
		return -1
	}
	return i
}

// timelineX converts a pane-relative pointer column to a timeline pixel.
func (m *Model) timelineX(x int) float64 {
	return float64(x - m.nameWidth() + m.hscroll)
}

func (m *Model) nameWidth() int {
	if m.width < nameColumn*2 {
		return m.width / 2
	}
	return nameColumn
}

func (m *Model) timelineWidth() int {
	tw := m.width - m.nameWidth()
	if tw < 10 {
		tw = 10
	}
	return tw
}

func refOf(t *task.Task) events.TaskRef {
	return events.TaskRef{
		ID:       t.ID,
		Name:     t.Name,
		ParentID: t.ParentID,
		Type:     t.Type,
		Status:   t.Status,
	}
}

func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
