package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
)

func TestPlaceBottomLeftCoversBaseRows(t *testing.T) {
	base := strings.Join([]string{"aaaaaaaaaa", "bbbbbbbbbb", "cccccccccc", "dddddddddd"}, "\n")
	pane := "link\nundo"

	got := strings.Split(Place(base, 10, 4, pane, Anchor{Horizontal: lipgloss.Left, Vertical: lipgloss.Bottom}), "\n")
	if len(got) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(got))
	}
	if got[0] != "aaaaaaaaaa" || got[1] != "bbbbbbbbbb" {
		t.Fatalf("expected untouched top rows, got %q and %q", got[0], got[1])
	}
	if !strings.HasPrefix(got[2], "link") || !strings.HasPrefix(got[3], "undo") {
		t.Fatalf("expected pane on the bottom rows, got %q and %q", got[2], got[3])
	}
	if strings.Contains(got[2], "c") {
		t.Fatalf("expected the pane row to replace base text through its width, got %q", got[2])
	}
}

func TestPlaceRightKeepsLeftOfBase(t *testing.T) {
	base := "0123456789"
	got := Place(base, 10, 1, "XX", Anchor{Horizontal: lipgloss.Right, Vertical: lipgloss.Top})
	if got != "01234567XX" {
		t.Fatalf("expected base kept left of a right-anchored pane, got %q", got)
	}
}

func TestPlaceCentersPane(t *testing.T) {
	got := Place("..........", 10, 1, "mid!", Anchor{Horizontal: lipgloss.Center, Vertical: lipgloss.Top})
	if got != "...mid!" {
		t.Fatalf("expected centered pane after the kept left edge, got %q", got)
	}
}

func TestClampViewportPadsShortViews(t *testing.T) {
	lines := clampViewport("one", 5, 3)
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if len(l) != 5 {
			t.Fatalf("expected row %d padded to width 5, got %q", i, l)
		}
	}
}
