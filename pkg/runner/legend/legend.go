// Package legend provides CLI helpers to display the chart legend.
package legend

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/gantt/pkg/glyph"
)

// Legend prints the glyphs used by the chart and the status column.
type Legend struct{}

// Do renders the bar and status keys to stdout.
func (k *Legend) Do(ctx context.Context) error {
	_, _ = fmt.Fprintln(color.Output, "")

	all := glyph.DefaultGlyphs()

	bars := make([]glyph.Glyph, 0, len(all))
	statuses := make([]glyph.Glyph, 0, len(all))
	for _, g := range all {
		if g.Status {
			statuses = append(statuses, g)
		} else {
			bars = append(bars, g)
		}
	}

	k.key(bars, "      Bars")
	_, _ = fmt.Fprintln(color.Output, "")
	k.key(statuses, "  Statuses")

	fmt.Println("")
	return nil
}

func (k *Legend) key(glyfs []glyph.Glyph, title string) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(title), bold.Sprint("Meaning"))
	for _, v := range glyfs {
		tbl.AddRow(v.Symbol, v.Meaning)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(color.Output, tbl)
}
