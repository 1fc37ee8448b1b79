package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/retrodesk/internal/geom"
)

// paint names one of the canvas styles.
type paint int

const (
	paintDesktop paint = iota
	paintDot
	paintIcon
	paintWindow
	paintTitle
	paintTitleFocused
	paintClose
	paintCursor
	paintTaskbar
	paintTaskItem
	paintTaskItemFocused
	paintMenu
	paintMenuSelected
	paintHint
	paintCount // sentinel
)

var paints = [paintCount]lipgloss.Style{
	paintDesktop: lipgloss.NewStyle().
		Background(lipgloss.Color("30")),
	paintDot: lipgloss.NewStyle().
		Background(lipgloss.Color("30")).
		Foreground(lipgloss.Color("37")),
	paintIcon: lipgloss.NewStyle().
		Background(lipgloss.Color("30")).
		Foreground(lipgloss.Color("15")),
	paintWindow: lipgloss.NewStyle().
		Background(lipgloss.Color("250")).
		Foreground(lipgloss.Color("0")),
	paintTitle: lipgloss.NewStyle().
		Background(lipgloss.Color("244")).
		Foreground(lipgloss.Color("252")),
	paintTitleFocused: lipgloss.NewStyle().
		Background(lipgloss.Color("18")).
		Foreground(lipgloss.Color("15")).
		Bold(true),
	paintClose: lipgloss.NewStyle().
		Background(lipgloss.Color("250")).
		Foreground(lipgloss.Color("0")).
		Bold(true),
	paintCursor: lipgloss.NewStyle().
		Background(lipgloss.Color("0")).
		Foreground(lipgloss.Color("250")),
	paintTaskbar: lipgloss.NewStyle().
		Background(lipgloss.Color("250")).
		Foreground(lipgloss.Color("0")),
	paintTaskItem: lipgloss.NewStyle().
		Background(lipgloss.Color("252")).
		Foreground(lipgloss.Color("0")),
	paintTaskItemFocused: lipgloss.NewStyle().
		Background(lipgloss.Color("244")).
		Foreground(lipgloss.Color("15")).
		Bold(true),
	paintMenu: lipgloss.NewStyle().
		Background(lipgloss.Color("250")).
		Foreground(lipgloss.Color("0")),
	paintMenuSelected: lipgloss.NewStyle().
		Background(lipgloss.Color("18")).
		Foreground(lipgloss.Color("15")),
	paintHint: lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("250")),
}

type cell struct {
	r     rune
	paint paint
	// wide marks the trailing cell of a double-width rune.
	wide bool
}

// canvas is a grid of styled cells painted back to front.
type canvas struct {
	width  int
	height int
	cells  []cell
}

func newCanvas(width, height int) *canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &canvas{width: width, height: height, cells: make([]cell, width*height)}
	c.fill(c.bounds(), ' ', paintDesktop)
	return c
}

func (c *canvas) bounds() geom.Rect {
	return geom.Rect{Width: c.width, Height: c.height}
}

func (c *canvas) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return nil
	}
	return &c.cells[y*c.width+x]
}

func (c *canvas) set(x, y int, r rune, p paint) {
	cl := c.at(x, y)
	if cl == nil {
		return
	}
	// Overwriting half of a wide rune blanks the other half.
	if cl.wide {
		if left := c.at(x-1, y); left != nil {
			left.r = ' '
		}
	} else if right := c.at(x+1, y); right != nil && right.wide {
		right.r = ' '
		right.wide = false
	}
	*cl = cell{r: r, paint: p}
}

// fill paints every cell of r that lies on the canvas.
func (c *canvas) fill(r geom.Rect, ch rune, p paint) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			c.set(x, y, ch, p)
		}
	}
}

// text writes s starting at (x, y) and stops after limit cells. It returns
// the number of cells written.
func (c *canvas) text(x, y int, s string, limit int, p paint) int {
	written := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if written+w > limit {
			break
		}
		if w == 2 && x+written+1 >= c.width {
			c.set(x+written, y, ' ', p)
			written++
			break
		}
		c.set(x+written, y, r, p)
		if w == 2 {
			c.set(x+written+1, y, ' ', p)
			if cl := c.at(x+written+1, y); cl != nil {
				cl.wide = true
			}
		}
		written += w
	}
	return written
}

// restyle changes the paint of one cell, keeping its rune.
func (c *canvas) restyle(x, y int, p paint) {
	if cl := c.at(x, y); cl != nil {
		cl.paint = p
	}
}

// Lines returns the canvas as plain text, one string per row.
func (c *canvas) Lines() []string {
	lines := make([]string, c.height)
	for y := 0; y < c.height; y++ {
		var sb strings.Builder
		for x := 0; x < c.width; x++ {
			cl := c.cells[y*c.width+x]
			if cl.wide {
				continue
			}
			sb.WriteRune(cl.r)
		}
		lines[y] = sb.String()
	}
	return lines
}

// Render returns the canvas with styles applied, grouping runs of equal paint.
func (c *canvas) Render() string {
	var out strings.Builder
	var run strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			out.WriteByte('\n')
		}
		cur := paint(-1)
		for x := 0; x < c.width; x++ {
			cl := c.cells[y*c.width+x]
			if cl.wide {
				continue
			}
			if cl.paint != cur {
				if run.Len() > 0 {
					out.WriteString(paints[cur].Render(run.String()))
					run.Reset()
				}
				cur = cl.paint
			}
			run.WriteRune(cl.r)
		}
		if run.Len() > 0 {
			out.WriteString(paints[cur].Render(run.String()))
			run.Reset()
		}
	}
	return out.String()
}
