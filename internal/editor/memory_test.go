package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryViewIDsAreUnique(t *testing.T) {
	a := NewMemoryView("", "x")
	b := NewMemoryView("", "x")
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestTextPoint(t *testing.T) {
	view := NewMemoryView("f.nim", "var x=1\nlet y = 2\nlast")

	tests := []struct {
		name     string
		row, col int
		want     int
	}{
		{"origin", 0, 0, 0},
		{"mid first line", 0, 4, 4},
		{"second line start", 1, 0, 8},
		{"col clamps to line end", 0, 99, 7},
		{"row clamps to last line", 99, 0, 18},
		{"negative clamps to origin", -1, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := view.TextPoint(tt.row, tt.col); got != tt.want {
				t.Errorf("TextPoint(%d, %d) = %d, want %d", tt.row, tt.col, got, tt.want)
			}
		})
	}
}

func TestRowCol(t *testing.T) {
	view := NewMemoryView("f.nim", "var x=1\nlet y = 2")

	row, col := view.RowCol(0)
	assert.Equal(t, []int{0, 0}, []int{row, col})

	row, col = view.RowCol(8)
	assert.Equal(t, []int{1, 0}, []int{row, col})

	row, col = view.RowCol(12)
	assert.Equal(t, []int{1, 4}, []int{row, col})

	// Beyond the buffer clamps to the end.
	row, col = view.RowCol(999)
	assert.Equal(t, []int{1, 9}, []int{row, col})
}

func TestLineEnd(t *testing.T) {
	view := NewMemoryView("f.nim", "var x=1\nlet y = 2")

	assert.Equal(t, 7, view.LineEnd(0))
	assert.Equal(t, 7, view.LineEnd(7))
	assert.Equal(t, 17, view.LineEnd(8))
	assert.Equal(t, 17, view.LineEnd(17))
}

func TestReplaceResetsViewport(t *testing.T) {
	view := NewMemoryView("f.nim", "one\ntwo\nthree")
	view.SetViewport(Position{X: 0, Y: 240})

	view.Replace("one\ntwo\nthree\nfour")

	assert.Equal(t, Position{}, view.Viewport())
	assert.Equal(t, 1, view.Replaced)
	assert.Equal(t, "one\ntwo\nthree\nfour", view.Text())
}

func TestStatusAndRegions(t *testing.T) {
	view := NewMemoryView("f.nim", "text")

	view.SetStatus("nimfmt", "failed")
	assert.Equal(t, "failed", view.Status("nimfmt"))
	view.EraseStatus("nimfmt")
	assert.Equal(t, "", view.Status("nimfmt"))

	spans := []Span{{Start: 0, End: 4}}
	view.AddRegions("nimfmt", spans, RegionSquigglyUnderline)
	assert.Equal(t, spans, view.Regions("nimfmt"))
	assert.Equal(t, RegionSquigglyUnderline, view.RegionStyleFor("nimfmt"))

	// A second add with the same key replaces, not appends.
	view.AddRegions("nimfmt", []Span{{Start: 1, End: 2}}, RegionFill)
	assert.Equal(t, []Span{{Start: 1, End: 2}}, view.Regions("nimfmt"))

	view.EraseRegions("nimfmt")
	assert.Nil(t, view.Regions("nimfmt"))
}

func TestWindowPanels(t *testing.T) {
	w := NewMemoryWindow("/proj")

	// Never-created panels count as hidden.
	assert.True(t, w.PanelHidden("output.nimfmt"))

	w.OutputPanel("output.nimfmt").SetText("Error: bad")
	assert.False(t, w.PanelHidden("output.nimfmt"))
	assert.Equal(t, "Error: bad", w.PanelText("output.nimfmt"))

	w.HidePanel("output.nimfmt")
	assert.True(t, w.PanelHidden("output.nimfmt"))

	// Reopening un-hides and keeps content.
	w.OutputPanel("output.nimfmt")
	assert.False(t, w.PanelHidden("output.nimfmt"))
}

func TestRunWhenIdleOrdering(t *testing.T) {
	w := NewMemoryWindow()

	var order []int
	w.RunWhenIdle(func() { order = append(order, 1) })
	w.RunWhenIdle(func() { order = append(order, 2) })
	require.Empty(t, order, "callbacks must not run before Flush")

	w.Flush()
	assert.Equal(t, []int{1, 2}, order)

	w.Flush()
	assert.Equal(t, []int{1, 2}, order, "Flush must clear the queue")
}
