package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1broseidon/retrodesk/internal/geom"
	"github.com/1broseidon/retrodesk/internal/shell"
)

func TestCanvasText(t *testing.T) {
	c := newCanvas(10, 2)
	n := c.text(1, 0, "hello world", 5, paintWindow)
	assert.Equal(t, 5, n)
	assert.Equal(t, []string{" hello    ", "          "}, c.Lines())
}

func TestCanvasWideRunes(t *testing.T) {
	c := newCanvas(6, 1)
	n := c.text(0, 0, "日本語", 6, paintWindow)
	assert.Equal(t, 6, n)
	assert.Equal(t, "日本語", c.Lines()[0])

	// Overwriting the trailing half of 本 blanks its leading half.
	c.set(3, 0, 'x', paintWindow)
	assert.Equal(t, "日 x語", c.Lines()[0])
}

func TestCanvasWideRuneAtEdge(t *testing.T) {
	c := newCanvas(3, 1)
	c.text(0, 0, "a日本", 3, paintWindow)
	assert.Equal(t, "a日", c.Lines()[0])

	c = newCanvas(2, 1)
	c.text(1, 0, "日", 2, paintWindow)
	assert.Equal(t, "  ", c.Lines()[0])
}

func TestCanvasClipsOffscreen(t *testing.T) {
	c := newCanvas(4, 2)
	c.fill(geom.Rect{X: -2, Y: -1, Width: 4, Height: 2}, '#', paintWindow)
	assert.Equal(t, []string{"##  ", "    "}, c.Lines())
}

func TestPaintWindowTruncatesTitle(t *testing.T) {
	c := newCanvas(20, 4)
	drawWindow(c, shell.WindowView{
		Title:  "A very long window title",
		Kind:   shell.KindDialog,
		Bounds: geom.Rect{X: 0, Y: 0, Width: 14, Height: 4},
		Body:   []string{"body text that overflows"},
	})
	lines := c.Lines()

	title := []rune(lines[0])
	assert.True(t, strings.HasPrefix(lines[0], " A very"))
	assert.Contains(t, lines[0], "…")
	assert.Equal(t, "[X]", string(title[10:13]))
	assert.Equal(t, "│ body text t│", string([]rune(lines[1])[:14]))
	assert.Equal(t, "└────────────┘", string([]rune(lines[3])[:14]))
}
