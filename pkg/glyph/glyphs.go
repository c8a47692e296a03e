package glyph

import "fmt"

// Glyph is one symbol of the schedule legend.
type Glyph struct {
	Key     string
	Symbol  string
	Meaning string
	Status  bool
}

const (
	escape        = "\x1b"
	resetCode     = 0
	boldCode      = 1
	underlineCode = 4
	strikeCode    = 9
)

func Strike(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, strikeCode, in, escape, resetCode)
}

func Bold(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, boldCode, in, escape, resetCode)
}

func Underline(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, underlineCode, in, escape, resetCode)
}

// Bar glyphs used by the timeline renderer and the printed legend.
const (
	PlanBar      = "█"
	ActualBar    = "▓"
	GroupCapL    = "▐"
	GroupBar     = "▔"
	GroupCapR    = "▌"
	Milestone    = "◆"
	ConnectorOut = "└"
	ConnectorIn  = "▶"
	CollapsedSig = "▸"
	ExpandedSig  = "▾"
)

// DefaultGlyphs lists the legend rows for bars and statuses.
func DefaultGlyphs() []Glyph {
	g := make([]Glyph, 0, 10)

	g = append(g, Glyph{
		Key:     "p",
		Symbol:  PlanBar,
		Meaning: "planned schedule bar",
	}, Glyph{
		Key:     "a",
		Symbol:  ActualBar,
		Meaning: "actual schedule bar",
	}, Glyph{
		Key:     "g",
		Symbol:  GroupBar,
		Meaning: "group roll-up span",
	}, Glyph{
		Key:     "d",
		Symbol:  ConnectorIn,
		Meaning: "dependency (end gates start)",
	}, Glyph{
		Key:     ">",
		Symbol:  CollapsedSig,
		Meaning: "collapsed subtree",
	}, Glyph{
		Key:     "n",
		Symbol:  "·",
		Meaning: "not-started",
		Status:  true,
	}, Glyph{
		Key:     "i",
		Symbol:  "◐",
		Meaning: "in-progress",
		Status:  true,
	}, Glyph{
		Key:     "c",
		Symbol:  "●",
		Meaning: "completed",
		Status:  true,
	}, Glyph{
		Key:     "!",
		Symbol:  "▲",
		Meaning: "delayed",
		Status:  true,
	})

	return g
}

func (g Glyph) String() string {
	return g.Symbol
}

// ForStatus maps a task status string to its legend glyph.
func ForStatus(status string) Glyph {
	for _, g := range DefaultGlyphs() {
		if g.Status && g.Meaning == status {
			return g
		}
	}
	return Glyph{Symbol: " ", Meaning: status}
}
