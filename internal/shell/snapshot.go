package shell

import (
	"strconv"
	"sync/atomic"

	"github.com/1broseidon/retrodesk/internal/geom"
	"github.com/1broseidon/retrodesk/internal/winstack"
)

// WindowKind says what a window shows.
type WindowKind string

const (
	KindTerminal WindowKind = "terminal"
	KindDialog   WindowKind = "dialog"
)

// WindowView is one window as presentation layers see it.
type WindowView struct {
	ID      winstack.WindowID `json:"id"`
	Title   string            `json:"title"`
	Kind    WindowKind        `json:"kind"`
	Bounds  geom.Rect         `json:"bounds"`
	Z       int               `json:"z"`
	Focused bool              `json:"focused"`
	Body    []string          `json:"-"`
	// Cursor is the terminal caret in content cells; nil for dialogs.
	Cursor *geom.Point `json:"-"`
}

// Snapshot is the pull-based view of the desktop after a tick.
type Snapshot struct {
	Windows    []WindowView `json:"windows"` // back to front
	Rate       float64      `json:"rate"`
	RateKnown  bool         `json:"rate_known"`
	Clock      string       `json:"clock"`
	Frames     uint64       `json:"frames"`
	Transcript []string     `json:"transcript,omitempty"`
	Input      string       `json:"input,omitempty"`
}

// FPSLabel returns the taskbar rate readout.
func (s *Snapshot) FPSLabel() string {
	if !s.RateKnown {
		return "FPS: ---"
	}
	return "FPS: " + strconv.Itoa(int(s.Rate+0.5))
}

// Focused returns the focused window, if any.
func (s *Snapshot) Focused() (WindowView, bool) {
	for _, w := range s.Windows {
		if w.Focused {
			return w, true
		}
	}
	return WindowView{}, false
}

// Board shares the latest snapshot with other goroutines. Only the UI
// goroutine stores; readers get an immutable snapshot.
type Board struct {
	latest atomic.Pointer[Snapshot]
}

// Store replaces the shared snapshot.
func (b *Board) Store(s *Snapshot) {
	b.latest.Store(s)
}

// Load returns the most recent snapshot, or nil before the first frame.
func (b *Board) Load() *Snapshot {
	return b.latest.Load()
}
