package tui

import (
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/retrodesk/internal/geom"
	"github.com/1broseidon/retrodesk/internal/shell"
	"github.com/1broseidon/retrodesk/internal/winstack"
)

const (
	startLabel   = "[Start]"
	brandLabel   = " webOS 95 vibes"
	menuWidth    = 20
	taskItemMax  = 16
	dotSpacingX  = 4
	dotSpacingY  = 2
	wallpaperDot = '·'
)

// menuAction is what a start menu entry does when chosen.
type menuAction int

const (
	actionOpenTerminal menuAction = iota
	actionAbout
	actionVibes
	actionExit
)

type menuItem struct {
	Label  string
	Action menuAction
}

var startMenu = []menuItem{
	{"Open Terminal", actionOpenTerminal},
	{"About", actionAbout},
	{"Vibes: ON", actionVibes},
	{"Exit", actionExit},
}

// icon is a desktop shortcut. Opens is false for decorative icons.
type icon struct {
	Glyph string
	Name  string
	At    geom.Point
	Opens bool
}

var desktopIcons = []icon{
	{Glyph: "[@]", Name: "My Web", At: geom.Point{X: 2, Y: 1}},
	{Glyph: "[>_]", Name: "Terminal", At: geom.Point{X: 2, Y: 4}, Opens: true},
}

func (i icon) rect() geom.Rect {
	w := runewidth.StringWidth(i.Glyph)
	if nw := runewidth.StringWidth(i.Name); nw > w {
		w = nw
	}
	return geom.Rect{X: i.At.X, Y: i.At.Y, Width: w, Height: 2}
}

// screen describes where the desktop pieces sit for a terminal size.
type screen struct {
	width  int
	height int
}

// desktop is the area windows live in: everything above the taskbar.
func (s screen) desktop() geom.Rect {
	h := s.height - 1
	if h < 0 {
		h = 0
	}
	return geom.Rect{Width: s.width, Height: h}
}

func (s screen) taskbarY() int {
	return s.height - 1
}

func (s screen) startButton() geom.Rect {
	return geom.Rect{X: 0, Y: s.taskbarY(), Width: len(startLabel), Height: 1}
}

func (s screen) menuRect() geom.Rect {
	h := len(startMenu) + 2
	return geom.Rect{X: 0, Y: s.taskbarY() - h, Width: menuWidth, Height: h}
}

// menuItemAt returns the start menu entry under p.
func (s screen) menuItemAt(p geom.Point) (int, bool) {
	inner := s.menuRect().Inset(1)
	if !inner.Contains(p) {
		return 0, false
	}
	return p.Y - inner.Y, true
}

// iconAt returns the desktop icon under p.
func iconAt(p geom.Point) (icon, bool) {
	for _, ic := range desktopIcons {
		if ic.rect().Contains(p) {
			return ic, true
		}
	}
	return icon{}, false
}

// windowAt returns the topmost window in snap under p.
func windowAt(snap *shell.Snapshot, p geom.Point) (shell.WindowView, bool) {
	if snap == nil {
		return shell.WindowView{}, false
	}
	for i := len(snap.Windows) - 1; i >= 0; i-- {
		if snap.Windows[i].Bounds.Contains(p) {
			return snap.Windows[i], true
		}
	}
	return shell.WindowView{}, false
}

// taskItem is one window button on the taskbar.
type taskItem struct {
	ID      winstack.WindowID
	Label   string
	Focused bool
	Rect    geom.Rect
}

// trayText is the right-hand taskbar readout.
func trayText(snap *shell.Snapshot) string {
	if snap == nil {
		return "FPS: --- | --:--:-- "
	}
	return snap.FPSLabel() + " | " + snap.Clock + " "
}

// taskItems lays out window buttons in opening order between the Start
// button and the tray. Buttons that do not fit are dropped.
func (s screen) taskItems(snap *shell.Snapshot) []taskItem {
	if snap == nil {
		return nil
	}
	views := append([]shell.WindowView(nil), snap.Windows...)
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })

	limit := s.width - runewidth.StringWidth(trayText(snap)) - 1
	x := len(startLabel) + 1
	var items []taskItem
	for _, v := range views {
		label := " " + runewidth.Truncate(v.Title, taskItemMax-2, "…") + " "
		w := runewidth.StringWidth(label)
		if x+w > limit {
			break
		}
		items = append(items, taskItem{
			ID:      v.ID,
			Label:   label,
			Focused: v.Focused,
			Rect:    geom.Rect{X: x, Y: s.taskbarY(), Width: w, Height: 1},
		})
		x += w + 1
	}
	return items
}
