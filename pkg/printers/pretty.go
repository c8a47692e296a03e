package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/gantt/pkg/curve"
	"tableflip.dev/gantt/pkg/glyph"
	"tableflip.dev/gantt/pkg/project"
	"tableflip.dev/gantt/pkg/rowindex"
	"tableflip.dev/gantt/pkg/task"
	"tableflip.dev/gantt/pkg/timeutil"
	"tableflip.dev/gantt/pkg/tree"
)

type PrettyPrint struct {
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("171dff69f8b99dca  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" task")
	default:
		_, _ = c.Println(" tasks")
	}
}

// Schedule prints the visible rows as an indented table: heading rows for
// category levels, one line per task with status glyph, dates and progress.
// Group tasks show the span and weighted progress of their leaf
// descendants, not their own authored fields.
func (pp *PrettyPrint) Schedule(idx *tree.Index, rows []rowindex.Row) {
	if len(rows) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Print(spacing)
		}
		_, _ = f.Print(" none\n\n")
		return
	}

	var weights curve.Weights
	if idx != nil {
		weights, _ = curve.LeafWeights(idx.Leaves())
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	head := []interface{}{"Task", "Start", "End", "Days", "Progress", "Status"}
	if pp.ShowID {
		head = append([]interface{}{"ID"}, head...)
	}
	tbl.AddRow(head...)

	for _, r := range rows {
		indent := strings.Repeat("  ", r.Depth)
		if r.Kind != rowindex.KindTask {
			name := r.Category
			switch r.Kind {
			case rowindex.KindSubcategory:
				name = r.Subcategory
			case rowindex.KindSubsubcategory:
				name = r.Subsubcategory
			}
			cells := []interface{}{indent + glyph.Bold(name), "", "", "", "", ""}
			if pp.ShowID {
				cells = append([]interface{}{""}, cells...)
			}
			tbl.AddRow(cells...)
			continue
		}

		t := r.Task
		g := glyph.ForStatus(string(t.Status))
		start, end := t.PlanStart, t.PlanEnd
		days := t.Duration()
		progress := fmt.Sprintf("%d%%", t.Progress)
		if idx != nil && idx.HasChildren(t.ID) {
			s := curve.GroupSummary(idx, t.ID, weights)
			start, end = s.Start, s.End
			days = 0
			if !s.Start.IsZero() && !s.End.IsZero() {
				days = timeutil.DaysBetween(s.Start.Time, s.End.Time) + 1
			}
			progress = fmt.Sprintf("%.0f%%", s.AvgProgress)
		}
		cells := []interface{}{
			fmt.Sprintf("%s%s %s", indent, g.Symbol, t.Name),
			start.String(),
			end.String(),
			days,
			progress,
			string(t.Status),
		}
		if pp.ShowID {
			cells = append([]interface{}{t.ID}, cells...)
		}
		tbl.AddRow(cells...)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Summary prints one roll-up line per named scope.
func (pp *PrettyPrint) Summary(name string, s curve.Summary) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Scope", "Start", "End", "Leaves", "Cost", "Progress")
	tbl.AddRow(name, s.Start.String(), s.End.String(), s.Leaves,
		fmt.Sprintf("%.2f", s.TotalCost), fmt.Sprintf("%.1f%%", s.AvgProgress))
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Projects prints the project catalog.
func (pp *PrettyPrint) Projects(metas []project.Meta) {
	if len(metas) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none\n\n")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Project", "Start", "End")
	for _, m := range metas {
		tbl.AddRow(m.Name, m.Start.String(), m.End.String())
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Legend prints the glyph legend.
func (pp *PrettyPrint) Legend() {
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, g := range glyph.DefaultGlyphs() {
		tbl.AddRow(g.Symbol, g.Meaning)
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// Late prints overdue leaf tasks.
func (pp *PrettyPrint) Late(tasks []*task.Task) {
	if len(tasks) == 0 {
		return
	}
	r := color.New(color.FgHiRed)
	for _, t := range tasks {
		_, _ = r.Printf("  %s (due %s, %d%%)\n", t.Name, t.PlanEnd, t.Progress)
	}
	fmt.Println("")
}
