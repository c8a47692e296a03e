package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/gantt/pkg/curve"
	"tableflip.dev/gantt/pkg/glyph"
	"tableflip.dev/gantt/pkg/timeutil"
)

const curveHeight = 10

// Curve plots cumulative plan and actual progress as a character chart, one
// column per day, ten rows of ten percent each.
func (pp *PrettyPrint) Curve(s curve.Series) {
	if len(s.Days) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" no dated tasks\n\n")
		return
	}

	axis := color.New(color.Faint)
	plan := color.New(color.Faint)
	actual := color.New(color.FgHiGreen)

	for row := curveHeight; row > 0; row-- {
		threshold := float64(row-1) * 100 / curveHeight
		_, _ = axis.Printf("%4d%% ", row*100/curveHeight)
		for day := 0; day < len(s.Days); day++ {
			switch {
			case day < len(s.Actual) && s.Actual[day] > threshold:
				_, _ = actual.Print(glyph.ActualBar)
			case s.Plan[day] > threshold:
				_, _ = plan.Print(glyph.PlanBar)
			default:
				fmt.Print(" ")
			}
		}
		fmt.Println("")
	}

	_, _ = axis.Printf("      %s\n", strings.Repeat("▔", len(s.Days)))
	_, _ = axis.Printf("      %s", timeutil.FormatISO(s.Start))
	end := timeutil.FormatISO(timeutil.AddDays(s.Start, len(s.Days)-1))
	if gap := len(s.Days) - len(end) - len(timeutil.FormatISO(s.Start)); gap > 0 {
		_, _ = axis.Printf("%s%s", strings.Repeat(" ", gap), end)
	}
	fmt.Println("")

	last := 0.0
	if n := len(s.Actual); n > 0 {
		last = s.Actual[n-1]
	}
	planNow := 0.0
	if n := len(s.Plan); n > 0 {
		planNow = s.Plan[n-1]
	}
	_, _ = axis.Printf("      plan %.1f%%  actual %.1f%%\n\n", planNow, last)
}
