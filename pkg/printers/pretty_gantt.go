package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/gantt/pkg/curve"
	"tableflip.dev/gantt/pkg/glyph"
	"tableflip.dev/gantt/pkg/rowindex"
	"tableflip.dev/gantt/pkg/timeline"
	"tableflip.dev/gantt/pkg/tree"
)

const nameWidth = 28

// Gantt prints a character-cell chart: one column per timeline unit, one
// line per visible row. Bars are positioned with the same scale math the
// interactive view uses, at one character per unit.
func (pp *PrettyPrint) Gantt(idx *tree.Index, rows []rowindex.Row, scale timeline.Scale) {
	scale.CellWidth = 1
	cells := scale.Cells()
	if len(cells) == 0 {
		return
	}

	var weights curve.Weights
	if idx != nil {
		weights, _ = curve.LeafWeights(idx.Leaves())
	}

	hf := color.New(color.FgWhite, color.Italic)
	pad := strings.Repeat(" ", nameWidth)

	for _, h := range scale.Headers() {
		off := int(scale.DateToOffset(h.Start))
		if off < 0 {
			off = 0
		}
		if off >= len(cells) {
			continue
		}
		label := h.Label
		if off+len(label) > len(cells) {
			label = label[:len(cells)-off]
		}
		_, _ = hf.Printf("%s%s%s\n", pad, strings.Repeat(" ", off), label)
	}

	wf := color.New(color.Faint)
	var line strings.Builder
	for _, c := range cells {
		if c.Today {
			line.WriteString(glyph.Bold(lastRune(c.Label)))
		} else {
			line.WriteString(lastRune(c.Label))
		}
	}
	_, _ = wf.Printf("%s%s\n", pad, line.String())

	for _, r := range rows {
		pp.ganttRow(idx, weights, r, scale, cells)
	}
	fmt.Println("")
}

func (pp *PrettyPrint) ganttRow(idx *tree.Index, w curve.Weights, r rowindex.Row, scale timeline.Scale, cells []timeline.Cell) {
	name := rowLabel(r)
	if len(name) > nameWidth-2 {
		name = name[:nameWidth-2]
	}

	if r.Kind != rowindex.KindTask {
		b := color.New(color.Bold)
		_, _ = b.Printf("%-*s\n", nameWidth, name)
		return
	}

	t := r.Task
	row := make([]string, len(cells))
	for i, c := range cells {
		if c.Weekend {
			row[i] = "·"
		} else {
			row[i] = " "
		}
	}

	paint := func(start, end time.Time, sym string) {
		if start.IsZero() || end.IsZero() {
			return
		}
		x, w := scale.BarSpan(start, end)
		from := int(x)
		to := int(x + w)
		if to <= from {
			to = from + 1
		}
		for i := from; i < to; i++ {
			if i >= 0 && i < len(row) {
				row[i] = sym
			}
		}
	}

	if idx != nil && idx.HasChildren(t.ID) {
		s := curve.GroupSummary(idx, t.ID, w)
		paint(s.Start.Time, s.End.Time, glyph.GroupBar)
	} else {
		paint(t.PlanStart.Time, t.PlanEnd.Time, glyph.PlanBar)
	}
	if t.ActualStart != nil && t.ActualEnd != nil {
		paint(t.ActualStart.Time, t.ActualEnd.Time, glyph.ActualBar)
	}

	_, _ = fmt.Printf("%-*s%s\n", nameWidth, "  "+name, strings.Join(row, ""))
}

func rowLabel(r rowindex.Row) string {
	switch r.Kind {
	case rowindex.KindCategory:
		return r.Category
	case rowindex.KindSubcategory:
		return "  " + r.Subcategory
	case rowindex.KindSubsubcategory:
		return "    " + r.Subsubcategory
	default:
		return r.Task.Name
	}
}

func lastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return " "
	}
	return string(runes[len(runes)-1])
}
