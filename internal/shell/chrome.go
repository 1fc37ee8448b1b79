package shell

import (
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/retrodesk/internal/geom"
)

// CloseLabel is drawn at the right end of every title bar.
const CloseLabel = "[X]"

// ContentRect returns the area inside a window's title bar and border.
func ContentRect(bounds geom.Rect) geom.Rect {
	return bounds.Inset(1)
}

// CloseButton returns the cells of the close button on the title row.
func CloseButton(bounds geom.Rect) geom.Rect {
	w := runewidth.StringWidth(CloseLabel)
	if bounds.Width < w+2 {
		return geom.Rect{}
	}
	return geom.Rect{X: bounds.X + bounds.Width - w - 1, Y: bounds.Y, Width: w, Height: 1}
}

// RuneIndexAt maps a cell column within line to a rune index, accounting
// for wide runes. Columns past the end map to the rune count.
func RuneIndexAt(line string, cell int) int {
	if cell <= 0 {
		return 0
	}
	width := 0
	i := 0
	for _, r := range line {
		width += runewidth.RuneWidth(r)
		if width > cell {
			return i
		}
		i++
	}
	return i
}

// CellWidth returns the display width of the first n runes of line.
func CellWidth(line string, n int) int {
	width := 0
	i := 0
	for _, r := range line {
		if i >= n {
			break
		}
		width += runewidth.RuneWidth(r)
		i++
	}
	return width
}
