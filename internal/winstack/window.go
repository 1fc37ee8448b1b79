package winstack

import "github.com/1broseidon/retrodesk/internal/geom"

// WindowID identifies a window for the lifetime of a Stack. IDs are never reused.
type WindowID uint32

// DragState tracks an in-progress title bar drag.
type DragState struct {
	Active bool
	// Anchor is the press point relative to the window origin.
	Anchor geom.Point
}

// Window is a floating window record.
type Window struct {
	ID      WindowID
	Title   string
	Bounds  geom.Rect
	Z       int // 0 is the back of the stack
	Focused bool
	Drag    DragState
}

// TitleRegion returns the rows of the window that start a drag when pressed.
func (w Window) TitleRegion(titleHeight int) geom.Rect {
	h := titleHeight
	if h > w.Bounds.Height {
		h = w.Bounds.Height
	}
	return geom.Rect{X: w.Bounds.X, Y: w.Bounds.Y, Width: w.Bounds.Width, Height: h}
}
