// Package app hosts the root Bubble Tea model: it wires the schedule pane,
// the command bar, overlays, the informer cache, and the store watcher, and
// applies edits optimistically before persisting them.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	ganttapp "tableflip.dev/gantt/pkg/app"
	"tableflip.dev/gantt/pkg/depgraph"
	"tableflip.dev/gantt/pkg/drag"
	"tableflip.dev/gantt/pkg/project"
	"tableflip.dev/gantt/pkg/store"
	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/timeline"
	cachepkg "tableflip.dev/gantt/pkg/tui/cache"
	"tableflip.dev/gantt/pkg/tui/components/command"
	"tableflip.dev/gantt/pkg/tui/components/ganttview"
	"tableflip.dev/gantt/pkg/tui/components/help"
	"tableflip.dev/gantt/pkg/tui/components/taskform"
	"tableflip.dev/gantt/pkg/tui/events"
	"tableflip.dev/gantt/pkg/tui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modeForm
	modeHelp
)

type snapshotMsg struct {
	snapshot cachepkg.Snapshot
}

type watchReadyMsg struct {
	ch  <-chan store.Event
	err error
}

type prefsMsg struct {
	prefs project.Prefs
}

type writeDoneMsg struct {
	taskID string
	err    error
}

type errMsg struct {
	err error
}

type statusMsg struct {
	text string
}

// Model is the root TUI model.
type Model struct {
	ctx         context.Context
	svc         *ganttapp.Service
	persistence store.Persistence

	project string

	cache   *cachepkg.Cache
	gantt   *ganttview.Model
	command *command.Model
	form    *taskform.Model
	help    *help.Model
	theme   theme.Theme

	mode    mode
	width   int
	height  int
	watchCh <-chan store.Event
}

// New wires the root model for the given project.
func New(ctx context.Context, p store.Persistence, project string, cascade bool) *Model {
	th := theme.Default()
	cmd := command.NewModel(command.Options{
		ID:           "command",
		PromptPrefix: ":",
		StatusText:   "Ready",
	})
	cmd.SetVerbs([]command.Verb{
		{Name: "add", Help: "Add a task"},
		{Name: "group", Help: "Add a group"},
		{Name: "link", Help: "Link the selected task to a named successor"},
		{Name: "unlink", Help: "Remove a dependency from the selected task"},
		{Name: "progress", Help: "Set percent complete on the selected task"},
		{Name: "delete", Help: "Delete the selected task"},
		{Name: "mode", Help: "Switch timeline zoom: day, week, month"},
		{Name: "project", Help: "Open another project"},
		{Name: "help", Help: "Show keybindings"},
		{Name: "quit", Help: "Exit"},
	})

	gv := ganttview.NewModel("ganttview", th.Gantt)
	gv.Focus()

	return &Model{
		ctx:         ctx,
		svc:         &ganttapp.Service{Persistence: p, Cascade: cascade},
		persistence: p,
		project:     project,
		cache:       cachepkg.New("cache"),
		gantt:       gv,
		command:     cmd,
		theme:       th,
	}
}

// Run launches the interactive TUI program.
func Run(ctx context.Context, p store.Persistence, project string, cascade bool) error {
	prog := tea.NewProgram(New(ctx, p, project, cascade),
		tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := prog.Run()
	return err
}

// Init loads the snapshot, restores saved preferences, and starts the
// store watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadSnapshot(),
		m.loadPrefs(),
		m.startWatch(),
		m.cache.WaitForEvent(),
	)
}

func (m *Model) loadPrefs() tea.Cmd {
	return func() tea.Msg {
		prefs, err := m.persistence.LoadPrefs(m.project)
		if err != nil {
			return errMsg{err}
		}
		return prefsMsg{prefs: prefs}
	}
}

// savePrefs records the current zoom and collapse state. Saving is best
// effort; a failed write never interrupts the session.
func (m *Model) savePrefs() {
	prefs, err := m.persistence.LoadPrefs(m.project)
	if err != nil {
		prefs = project.Prefs{}
	}
	prefs.ViewMode = string(m.gantt.ViewMode())
	prefs.Collapsed = m.gantt.Collapsed()
	_ = m.persistence.SavePrefs(m.project, prefs)
}

func (m *Model) loadSnapshot() tea.Cmd {
	return func() tea.Msg {
		snapshot, err := cachepkg.BuildSnapshot(m.ctx, m.persistence, m.project)
		if err != nil {
			return errMsg{err}
		}
		return snapshotMsg{snapshot: snapshot}
	}
}

func (m *Model) startWatch() tea.Cmd {
	return func() tea.Msg {
		ch, err := m.persistence.Watch(m.ctx)
		return watchReadyMsg{ch: ch, err: err}
	}
}

// Update routes messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.command.SetSize(msg.Width, msg.Height)
		m.gantt.SetSize(msg.Width, msg.Height-1)
		if m.form != nil {
			m.form.SetSize(min(msg.Width-4, 70), msg.Height-4)
		}
		if m.help != nil {
			m.help.SetSize(min(msg.Width-4, 70), msg.Height-4)
		}
		return m, nil

	case snapshotMsg:
		m.cache.ApplySnapshot(msg.snapshot)
		m.refreshGantt()
		return m, m.cache.WaitForEvent()

	case prefsMsg:
		switch mode := timeline.ViewMode(msg.prefs.ViewMode); mode {
		case timeline.ModeDay, timeline.ModeWeek, timeline.ModeMonth:
			m.gantt.SetViewMode(mode)
		}
		if len(msg.prefs.Collapsed) > 0 {
			m.gantt.SetCollapsed(msg.prefs.Collapsed)
		}
		return m, nil

	case watchReadyMsg:
		if msg.err != nil {
			m.command.SetStatus("Watcher unavailable: " + msg.err.Error())
			return m, nil
		}
		m.watchCh = msg.ch
		m.command.SetStatus("Watching for changes")
		return m, cachepkg.WaitForStoreEvent(m.watchCh)

	case cachepkg.StoreEventMsg:
		cmds = append(cmds, cachepkg.WaitForStoreEvent(m.watchCh))
		if msg.RelevantTo(m.project) {
			cmds = append(cmds, m.loadSnapshot())
		}
		return m, tea.Batch(cmds...)

	case events.TaskChangeMsg:
		m.refreshGantt()
		return m, m.cache.WaitForEvent()

	case events.DragCommitMsg:
		return m, m.applyCommit(msg)

	case writeDoneMsg:
		m.svc.ClearUpdating(msg.taskID)
		m.gantt.SetUpdating(msg.taskID, false)
		if msg.err != nil {
			m.command.SetStatus("Save failed: " + msg.err.Error())
			return m, m.loadSnapshot()
		}
		m.command.SetStatus("Saved")
		return m, nil

	case taskform.SubmitMsg:
		m.closeForm()
		return m, m.createTask(msg)

	case taskform.CancelMsg:
		m.closeForm()
		return m, nil

	case events.CommandSubmitMsg:
		m.command.ExitInput()
		return m, m.runCommand(msg.Value)

	case events.CommandCancelMsg:
		m.command.ExitInput()
		return m, nil

	case errMsg:
		m.command.SetStatus("Error: " + msg.err.Error())
		return m, nil

	case statusMsg:
		m.command.SetStatus(msg.text)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	// Pointer input goes to the schedule pane unless an overlay is open.
	if m.mode == modeNormal && !m.command.InInputMode() {
		gv, cmd := m.gantt.Update(msg)
		m.gantt = gv
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.command.InInputMode() {
		_, cmd := m.command.Update(msg)
		return m, cmd
	}

	switch m.mode {
	case modeHelp:
		switch msg.String() {
		case "esc", "?", "q":
			m.mode = modeNormal
			m.help = nil
			return m, nil
		}
		if m.help != nil {
			_, cmd := m.help.Update(msg)
			return m, cmd
		}
		return m, nil

	case modeForm:
		if m.form == nil {
			m.mode = modeNormal
			return m, nil
		}
		form, cmd := m.form.Update(msg)
		m.form = form
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.savePrefs()
		return m, tea.Quit
	case "?":
		m.openHelp()
		return m, nil
	case ":":
		return m, m.command.BeginInput("")
	case "a":
		m.openForm(false)
		return m, nil
	case "A":
		m.openForm(true)
		return m, nil
	case "x":
		return m, m.deleteSelected()
	case "+", "=":
		return m, m.nudgeProgress(10)
	case "-":
		return m, m.nudgeProgress(-10)
	case "L":
		return m, m.command.BeginInput("link ")
	}

	gv, cmd := m.gantt.Update(msg)
	m.gantt = gv
	return m, cmd
}

// View composes the schedule pane under the command bar and overlays.
func (m *Model) View() string {
	content := m.gantt.View()
	switch m.mode {
	case modeForm:
		if m.form != nil {
			content = overlayCentered(content, m.form.View(), m.width, m.height-1)
		}
	case modeHelp:
		if m.help != nil {
			body, _ := m.help.View()
			content = overlayCentered(content, body, m.width, m.height-1)
		}
	}
	m.command.SetContent(content, nil)
	view, _ := m.command.View()
	return view
}

func (m *Model) refreshGantt() {
	snapshot := m.cache.Snapshot()
	ref := events.ProjectRef{Name: snapshot.Project}
	for _, meta := range snapshot.Projects {
		if meta.Name == snapshot.Project {
			ref.Start, ref.End = meta.Start, meta.End
		}
	}
	m.gantt.SetTasks(ref, snapshot.Tasks)
}

// applyCommit persists a finished drag. The cache is updated first so the
// bar lands immediately; the store write completes in the background and a
// failure reloads from disk.
func (m *Model) applyCommit(msg events.DragCommitMsg) tea.Cmd {
	id := msg.Commit.TaskID
	if !m.svc.MarkUpdating(id) {
		m.command.SetStatus("A write for this task is still in flight")
		return nil
	}
	m.gantt.SetUpdating(id, true)

	if t, ok := m.cache.Task(id); ok {
		preview := t.Clone()
		fields := task.Fields{}
		start := task.DateOf(msg.Commit.Start)
		end := task.DateOf(msg.Commit.End)
		if msg.Commit.Bar == drag.BarActual {
			fields.ActualStart = &start
			fields.ActualEnd = &end
		} else {
			fields.PlanStart = &start
			fields.PlanEnd = &end
		}
		fields.Apply(preview)
		m.cache.UpsertTask(preview)
	}

	commit := msg.Commit
	return func() tea.Msg {
		_, err := m.svc.ApplyCommit(m.ctx, m.project, commit)
		return writeDoneMsg{taskID: id, err: err}
	}
}

func (m *Model) createTask(msg taskform.SubmitMsg) tea.Cmd {
	return func() tea.Msg {
		fields := task.Fields{}
		if msg.Group {
			typ := task.TypeGroup
			fields.Type = &typ
		}
		if msg.Start != "" {
			d, err := task.ParseDate(msg.Start)
			if err != nil {
				return errMsg{err}
			}
			fields.PlanStart = &d
		}
		if msg.End != "" {
			d, err := task.ParseDate(msg.End)
			if err != nil {
				return errMsg{err}
			}
			fields.PlanEnd = &d
		}
		if msg.Cost != "" {
			v, err := strconv.ParseFloat(msg.Cost, 64)
			if err != nil {
				return errMsg{fmt.Errorf("invalid cost %q", msg.Cost)}
			}
			fields.Cost = &v
		}
		if msg.Quantity != "" {
			q := msg.Quantity
			fields.Quantity = &q
		}
		if msg.Responsible != "" {
			r := msg.Responsible
			fields.Responsible = &r
		}
		t, err := m.svc.Create(m.ctx, m.project, msg.Name, msg.ParentID, fields)
		if err != nil {
			return errMsg{err}
		}
		m.cache.UpsertTask(t)
		return statusMsg{text: "Added " + t.Name}
	}
}

func (m *Model) deleteSelected() tea.Cmd {
	t := m.gantt.SelectedTask()
	if t == nil {
		return nil
	}
	id, name := t.ID, t.Name
	return func() tea.Msg {
		if err := m.svc.Delete(m.ctx, m.project, id); err != nil {
			return errMsg{err}
		}
		m.cache.RemoveTask(id)
		return statusMsg{text: "Deleted " + name}
	}
}

func (m *Model) nudgeProgress(delta int) tea.Cmd {
	t := m.gantt.SelectedTask()
	if t == nil {
		return nil
	}
	id := t.ID
	pct := t.Progress + delta
	return func() tea.Msg {
		updated, err := m.svc.SetProgress(m.ctx, m.project, id, pct)
		if err != nil {
			return errMsg{err}
		}
		m.cache.UpsertTask(updated)
		return statusMsg{text: fmt.Sprintf("%s at %d%%", updated.Name, updated.Progress)}
	}
}

// runCommand executes a command-bar entry.
func (m *Model) runCommand(value string) tea.Cmd {
	parts := strings.Fields(strings.TrimSpace(value))
	if len(parts) == 0 {
		return nil
	}
	verb, rest := parts[0], strings.Join(parts[1:], " ")

	switch verb {
	case "quit", "q":
		m.savePrefs()
		return tea.Quit
	case "help":
		m.openHelp()
		return nil
	case "add":
		m.openForm(false)
		return nil
	case "group":
		m.openForm(true)
		return nil
	case "delete":
		return m.deleteSelected()
	case "mode":
		switch rest {
		case "day", "week", "month":
			m.gantt.SetViewMode(timeline.ViewMode(rest))
			m.savePrefs()
			return nil
		}
		return statusCmd("Usage: mode day|week|month")
	case "progress":
		pct, err := strconv.Atoi(rest)
		if err != nil {
			return statusCmd("Usage: progress <0-100>")
		}
		t := m.gantt.SelectedTask()
		if t == nil {
			return statusCmd("No task selected")
		}
		id := t.ID
		return func() tea.Msg {
			updated, err := m.svc.SetProgress(m.ctx, m.project, id, pct)
			if err != nil {
				return errMsg{err}
			}
			m.cache.UpsertTask(updated)
			return statusMsg{text: fmt.Sprintf("%s at %d%%", updated.Name, updated.Progress)}
		}
	case "link", "unlink":
		return m.linkCommand(verb, rest)
	case "project":
		if rest == "" {
			return statusCmd("Usage: project <name>")
		}
		m.project = rest
		return m.loadSnapshot()
	}
	return statusCmd("Unknown command: " + verb)
}

func (m *Model) linkCommand(verb, targetName string) tea.Cmd {
	source := m.gantt.SelectedTask()
	if source == nil {
		return statusCmd("No task selected")
	}
	if targetName == "" {
		return statusCmd("Usage: " + verb + " <task name>")
	}
	target := m.findByName(targetName)
	if target == nil {
		return statusCmd("No task named " + targetName)
	}
	srcID, tgtID := source.ID, target.ID
	return func() tea.Msg {
		var updated *task.Task
		var err error
		if verb == "link" {
			updated, err = m.svc.Link(m.ctx, m.project, srcID, depgraph.AnchorEnd, tgtID, depgraph.AnchorStart)
		} else {
			updated, err = m.svc.Unlink(m.ctx, m.project, srcID, tgtID)
		}
		if err != nil {
			if errors.Is(err, depgraph.ErrCircular) {
				return errMsg{errors.New("that link would create a cycle")}
			}
			return errMsg{err}
		}
		m.cache.UpsertTask(updated)
		return statusMsg{text: "Linked"}
	}
}

func (m *Model) findByName(name string) *task.Task {
	lowered := strings.ToLower(name)
	for _, t := range m.cache.Snapshot().Tasks {
		if strings.ToLower(t.Name) == lowered {
			return t
		}
	}
	return nil
}

func (m *Model) openForm(group bool) {
	selected := m.gantt.SelectedTask()
	opts := taskform.Options{
		Project: events.ProjectRef{Name: m.project},
		Group:   group,
	}
	if selected != nil && selected.Type == task.TypeGroup {
		opts.ParentID = selected.ID
		opts.ParentLabel = selected.Name
	}
	m.form = taskform.NewModel(opts)
	m.form.SetSize(min(m.width-4, 70), m.height-4)
	m.mode = modeForm
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = modeNormal
}

func (m *Model) openHelp() {
	m.help = help.New(min(m.width-4, 70), m.height-4)
	m.mode = modeHelp
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// overlayCentered paints the overlay over the content, centered. Lip Gloss
// layering keeps the background visible around the overlay box.
func overlayCentered(content, overlay string, width, height int) string {
	lines := strings.Split(content, "\n")
	overlayLines := strings.Split(overlay, "\n")
	top := (height - len(overlayLines)) / 2
	if top < 0 {
		top = 0
	}
	for i, ol := range overlayLines {
		at := top + i
		if at >= len(lines) {
			break
		}
		pad := (width - ansi.PrintableRuneWidth(ol)) / 2
		if pad < 0 {
			pad = 0
		}
		lines[at] = strings.Repeat(" ", pad) + ol
	}
	return strings.Join(lines, "\n")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
