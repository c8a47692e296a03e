package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tableflip.dev/gantt/pkg/task"
)

// Header is the canonical export column set, in order.
var Header = []string{
	"Category",
	"Subcategory",
	"SubSubcategory",
	"Type",
	"Task Name",
	"Plan Start",
	"Plan End",
	"Duration (Days)",
	"Cost",
	"Quantity",
	"Responsible",
	"Progress (%)",
	"Status",
	"Actual Start",
	"Actual End",
}

// aliases maps normalized header text to canonical column names. Normalizing
// lowercases and strips spaces, parens and percent signs so exports from
// other tools line up.
var aliases = map[string]string{
	"category":       "Category",
	"subcategory":    "Subcategory",
	"subsubcategory": "SubSubcategory",
	"type":           "Type",
	"taskname":       "Task Name",
	"task":           "Task Name",
	"name":           "Task Name",
	"planstart":      "Plan Start",
	"startdate":      "Plan Start",
	"start":          "Plan Start",
	"planend":        "Plan End",
	"enddate":        "Plan End",
	"end":            "Plan End",
	"duration":       "Duration (Days)",
	"durationdays":   "Duration (Days)",
	"cost":           "Cost",
	"quantity":       "Quantity",
	"qty":            "Quantity",
	"responsible":    "Responsible",
	"progress":       "Progress (%)",
	"status":         "Status",
	"actualstart":    "Actual Start",
	"actualend":      "Actual End",
}

func normalize(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		switch r {
		case ' ', '(', ')', '%', '-', '_', '.':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Import reads tasks for a project from r. The first row is taken as the
// header; unknown columns are ignored. Rows with no resolvable task name and
// rows echoing the header text are skipped. Numeric fields default to 0 on
// parse failure; dates are accepted in any of the supported formats.
func Import(r io.Reader, project string) ([]*task.Task, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csvio: read header: %w", err)
	}
	cols := make(map[string]int, len(head))
	for i, h := range head {
		if canon, ok := aliases[normalize(h)]; ok {
			if _, dup := cols[canon]; !dup {
				cols[canon] = i
			}
		}
	}
	if _, ok := cols["Task Name"]; !ok {
		return nil, fmt.Errorf("csvio: no task name column in header %v", head)
	}

	field := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var tasks []*task.Task
	order := 0.0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvio: read row: %w", err)
		}

		name := field(rec, "Task Name")
		if name == "" || isHeaderEcho(name) {
			continue
		}

		t := task.New(project, name)
		t.Category = field(rec, "Category")
		t.Subcategory = field(rec, "Subcategory")
		t.Subsubcategory = field(rec, "SubSubcategory")
		if typ := strings.ToLower(field(rec, "Type")); typ == string(task.TypeGroup) {
			t.Type = task.TypeGroup
		}
		t.PlanStart = parseDate(field(rec, "Plan Start"))
		t.PlanEnd = parseDate(field(rec, "Plan End"))
		t.Cost = parseFloat(field(rec, "Cost"))
		t.Quantity = field(rec, "Quantity")
		t.Responsible = field(rec, "Responsible")
		t.Progress = parseInt(field(rec, "Progress (%)"))
		if st := parseStatus(field(rec, "Status")); st != "" {
			t.Status = st
		}
		if d := parseDate(field(rec, "Actual Start")); !d.IsZero() {
			t.ActualStart = &d
		}
		if d := parseDate(field(rec, "Actual End")); !d.IsZero() {
			t.ActualEnd = &d
		}
		// Duration is derived from the dates, not trusted from the file.
		t.PlanDuration = t.Duration()

		order = task.OrderAfter(order)
		t.Order = order
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Export writes tasks to w with a UTF-8 byte-order mark, the canonical
// header, and ISO dates.
func Export(w io.Writer, tasks []*task.Task) error {
	if _, err := w.Write([]byte("\uFEFF")); err != nil {
		return fmt.Errorf("csvio: write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("csvio: write header: %w", err)
	}
	for _, t := range tasks {
		rec := []string{
			t.Category,
			t.Subcategory,
			t.Subsubcategory,
			string(t.Type),
			t.Name,
			t.PlanStart.String(),
			t.PlanEnd.String(),
			strconv.Itoa(t.Duration()),
			formatFloat(t.Cost),
			t.Quantity,
			t.Responsible,
			strconv.Itoa(t.Progress),
			string(t.Status),
			dateString(t.ActualStart),
			dateString(t.ActualEnd),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("csvio: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func isHeaderEcho(name string) bool {
	return normalize(name) == "taskname"
}

func parseDate(v string) task.Date {
	if v == "" {
		return task.Date{}
	}
	d, err := task.ParseDate(v)
	if err != nil {
		return task.Date{}
	}
	return d
}

func parseInt(v string) int {
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func parseFloat(v string) float64 {
	if v == "" {
		return 0
	}
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseStatus(v string) task.Status {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case string(task.StatusNotStarted):
		return task.StatusNotStarted
	case string(task.StatusInProgress):
		return task.StatusInProgress
	case string(task.StatusCompleted):
		return task.StatusCompleted
	case string(task.StatusDelayed):
		return task.StatusDelayed
	}
	return ""
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func dateString(d *task.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
