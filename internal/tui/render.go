package tui

import (
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/retrodesk/internal/geom"
	"github.com/1broseidon/retrodesk/internal/shell"
)

// frame is everything one View call needs.
type frame struct {
	screen    screen
	snap      *shell.Snapshot
	wallpaper bool
	icons     bool
	menuOpen  bool
	menuIndex int
	hint      string
}

func (f frame) draw() *canvas {
	c := newCanvas(f.screen.width, f.screen.height)
	if f.wallpaper {
		drawWallpaper(c, f.screen.desktop())
	}
	if f.icons {
		drawIcons(c)
	}
	if f.snap != nil {
		for _, w := range f.snap.Windows {
			drawWindow(c, w)
		}
	}
	drawTaskbar(c, f.screen, f.snap)
	if f.menuOpen {
		drawMenu(c, f.screen, f.menuIndex)
		if f.hint != "" {
			c.fill(geom.Rect{Width: c.width, Height: 1}, ' ', paintHint)
			c.text(1, 0, f.hint, c.width-2, paintHint)
		}
	}
	return c
}

func drawWallpaper(c *canvas, area geom.Rect) {
	for y := area.Y + 1; y < area.Y+area.Height; y += dotSpacingY {
		for x := area.X + 1; x < area.X+area.Width; x += dotSpacingX {
			c.set(x, y, wallpaperDot, paintDot)
		}
	}
}

func drawIcons(c *canvas) {
	for _, ic := range desktopIcons {
		r := ic.rect()
		c.fill(r, ' ', paintDesktop)
		c.text(ic.At.X, ic.At.Y, ic.Glyph, r.Width, paintIcon)
		c.text(ic.At.X, ic.At.Y+1, ic.Name, r.Width, paintIcon)
	}
}

// paintWindow draws the frame, title bar and body of one window.
func drawWindow(c *canvas, w shell.WindowView) {
	b := w.Bounds
	if b.Empty() {
		return
	}
	c.fill(b, ' ', paintWindow)

	title := paintTitle
	if w.Focused {
		title = paintTitleFocused
	}
	c.fill(geom.Rect{X: b.X, Y: b.Y, Width: b.Width, Height: 1}, ' ', title)
	closeBtn := shell.CloseButton(b)
	titleRoom := b.Width - 2
	if !closeBtn.Empty() {
		titleRoom = closeBtn.X - b.X - 2
	}
	if titleRoom > 0 {
		c.text(b.X+1, b.Y, runewidth.Truncate(w.Title, titleRoom, "…"), titleRoom, title)
	}
	if !closeBtn.Empty() {
		c.text(closeBtn.X, closeBtn.Y, shell.CloseLabel, closeBtn.Width, paintClose)
	}

	if b.Height > 1 {
		for y := b.Y + 1; y < b.Y+b.Height-1; y++ {
			c.set(b.X, y, '│', paintWindow)
			c.set(b.X+b.Width-1, y, '│', paintWindow)
		}
		bottom := b.Y + b.Height - 1
		for x := b.X + 1; x < b.X+b.Width-1; x++ {
			c.set(x, bottom, '─', paintWindow)
		}
		c.set(b.X, bottom, '└', paintWindow)
		c.set(b.X+b.Width-1, bottom, '┘', paintWindow)
	}

	content := shell.ContentRect(b)
	if content.Empty() {
		return
	}
	x := content.X
	if w.Kind == shell.KindDialog {
		x++
	}
	for i, line := range w.Body {
		if i >= content.Height {
			break
		}
		c.text(x, content.Y+i, line, content.X+content.Width-x, paintWindow)
	}

	if w.Focused && w.Cursor != nil {
		cx, cy := content.X+w.Cursor.X, content.Y+w.Cursor.Y
		if content.Contains(geom.Point{X: cx, Y: cy}) {
			c.restyle(cx, cy, paintCursor)
		}
	}
}

func drawTaskbar(c *canvas, s screen, snap *shell.Snapshot) {
	y := s.taskbarY()
	if y < 0 {
		return
	}
	c.fill(geom.Rect{Y: y, Width: s.width, Height: 1}, ' ', paintTaskbar)
	c.text(0, y, startLabel, s.width, paintTaskbar)

	items := s.taskItems(snap)
	for _, it := range items {
		p := paintTaskItem
		if it.Focused {
			p = paintTaskItemFocused
		}
		c.text(it.Rect.X, y, it.Label, it.Rect.Width, p)
	}

	tray := trayText(snap)
	trayX := s.width - runewidth.StringWidth(tray)
	if len(items) == 0 {
		room := trayX - len(startLabel) - 1
		if room > 0 {
			c.text(len(startLabel), y, brandLabel, room, paintTaskbar)
		}
	}
	if trayX > len(startLabel) {
		c.text(trayX, y, tray, s.width-trayX, paintTaskbar)
	}
}

func drawMenu(c *canvas, s screen, selected int) {
	r := s.menuRect()
	c.fill(r, ' ', paintMenu)
	for x := r.X + 1; x < r.X+r.Width-1; x++ {
		c.set(x, r.Y, '─', paintMenu)
		c.set(x, r.Y+r.Height-1, '─', paintMenu)
	}
	for y := r.Y + 1; y < r.Y+r.Height-1; y++ {
		c.set(r.X, y, '│', paintMenu)
		c.set(r.X+r.Width-1, y, '│', paintMenu)
	}
	c.set(r.X, r.Y, '┌', paintMenu)
	c.set(r.X+r.Width-1, r.Y, '┐', paintMenu)
	c.set(r.X, r.Y+r.Height-1, '└', paintMenu)
	c.set(r.X+r.Width-1, r.Y+r.Height-1, '┘', paintMenu)

	inner := r.Inset(1)
	for i, item := range startMenu {
		p := paintMenu
		if i == selected {
			p = paintMenuSelected
			c.fill(geom.Rect{X: inner.X, Y: inner.Y + i, Width: inner.Width, Height: 1}, ' ', p)
		}
		c.text(inner.X+1, inner.Y+i, item.Label, inner.Width-1, p)
	}
}
