// Package winstack keeps the z-ordered set of floating desktop windows.
//
// A Stack is owned by a single goroutine (the UI scheduler) and does no
// locking. Every operation completes synchronously. Operations that name an
// unknown window are ignored and report false.
package winstack

import (
	"go.uber.org/zap"

	"github.com/1broseidon/retrodesk/internal/geom"
)

// DefaultTitleHeight is the number of rows at the top of a window that act as its title bar.
const DefaultTitleHeight = 1

// Option configures a Stack.
type Option func(*Stack)

// WithTitleHeight sets how many rows at the top of a window start a drag.
func WithTitleHeight(rows int) Option {
	return func(s *Stack) {
		if rows > 0 {
			s.titleHeight = rows
		}
	}
}

// WithBounds clamps dragged windows so their title bar stays inside bounds.
// A zero rect disables clamping.
func WithBounds(bounds geom.Rect) Option {
	return func(s *Stack) {
		s.bounds = bounds
	}
}

// WithLogger attaches a logger for ignored operations.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Stack) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Stack holds windows ordered back to front. A window's index in the slice
// is always its Z rank, so ranks stay dense and strictly ordered.
type Stack struct {
	windows     []*Window
	nextID      WindowID
	titleHeight int
	bounds      geom.Rect
	logger      *zap.Logger
}

// New creates an empty stack.
func New(opts ...Option) *Stack {
	s := &Stack{
		nextID:      1,
		titleHeight: DefaultTitleHeight,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetBounds replaces the clamp area, e.g. after the terminal is resized.
// Windows already outside the new area are pulled back in.
func (s *Stack) SetBounds(bounds geom.Rect) {
	s.bounds = bounds
	if bounds.Empty() {
		return
	}
	for _, w := range s.windows {
		w.Bounds = s.clamp(w.Bounds)
	}
}

// TitleHeight returns the configured title bar height.
func (s *Stack) TitleHeight() int {
	return s.titleHeight
}

// Len returns the number of open windows.
func (s *Stack) Len() int {
	return len(s.windows)
}

// Open inserts a window at the top of the stack and focuses it.
func (s *Stack) Open(title string, bounds geom.Rect) WindowID {
	w := &Window{
		ID:     s.nextID,
		Title:  title,
		Bounds: s.clamp(bounds),
	}
	s.nextID++
	s.windows = append(s.windows, w)
	s.focusTop()
	s.logger.Debug("window opened", zap.Uint32("id", uint32(w.ID)), zap.String("title", title))
	return w.ID
}

// Press raises and focuses the window. When p lies in the title region a
// drag begins, anchored at p relative to the window origin.
func (s *Stack) Press(id WindowID, p geom.Point) bool {
	idx := s.index(id)
	if idx < 0 {
		s.ignored("press", id)
		return false
	}

	w := s.windows[idx]
	if w.TitleRegion(s.titleHeight).Contains(p) {
		w.Drag = DragState{Active: true, Anchor: p.Sub(w.Bounds.Origin())}
	}
	s.raise(idx)
	return true
}

// Drag moves the window so that its anchor follows p. It does nothing
// unless a drag on that window is active.
func (s *Stack) Drag(id WindowID, p geom.Point) bool {
	idx := s.index(id)
	if idx < 0 {
		s.ignored("drag", id)
		return false
	}

	w := s.windows[idx]
	if !w.Drag.Active {
		return false
	}
	w.Bounds = s.clamp(w.Bounds.MoveTo(p.Sub(w.Drag.Anchor)))
	return true
}

// Release ends any drag on the window.
func (s *Stack) Release(id WindowID) bool {
	idx := s.index(id)
	if idx < 0 {
		s.ignored("release", id)
		return false
	}
	s.windows[idx].Drag = DragState{}
	return true
}

// Raise focuses the window and moves it to the top without starting a drag.
func (s *Stack) Raise(id WindowID) bool {
	idx := s.index(id)
	if idx < 0 {
		s.ignored("raise", id)
		return false
	}
	s.raise(idx)
	return true
}

// Close removes the window. If it held focus, the next-highest window is
// focused; an empty stack has no focus.
func (s *Stack) Close(id WindowID) bool {
	idx := s.index(id)
	if idx < 0 {
		s.ignored("close", id)
		return false
	}

	wasFocused := s.windows[idx].Focused
	s.windows = append(s.windows[:idx], s.windows[idx+1:]...)
	s.renumber()
	if wasFocused {
		s.focusTop()
	}
	s.logger.Debug("window closed", zap.Uint32("id", uint32(id)))
	return true
}

// ZOrder returns window ids back to front.
func (s *Stack) ZOrder() []WindowID {
	ids := make([]WindowID, len(s.windows))
	for i, w := range s.windows {
		ids[i] = w.ID
	}
	return ids
}

// Windows returns copies of all windows back to front.
func (s *Stack) Windows() []Window {
	out := make([]Window, len(s.windows))
	for i, w := range s.windows {
		out[i] = *w
	}
	return out
}

// Window returns a copy of the window with the given id.
func (s *Stack) Window(id WindowID) (Window, bool) {
	idx := s.index(id)
	if idx < 0 {
		return Window{}, false
	}
	return *s.windows[idx], true
}

// Focused returns the focused window id, if any.
func (s *Stack) Focused() (WindowID, bool) {
	for _, w := range s.windows {
		if w.Focused {
			return w.ID, true
		}
	}
	return 0, false
}

// Top returns the front-most window id, if any.
func (s *Stack) Top() (WindowID, bool) {
	if len(s.windows) == 0 {
		return 0, false
	}
	return s.windows[len(s.windows)-1].ID, true
}

// WindowAt returns the front-most window containing p.
func (s *Stack) WindowAt(p geom.Point) (WindowID, bool) {
	for i := len(s.windows) - 1; i >= 0; i-- {
		if s.windows[i].Bounds.Contains(p) {
			return s.windows[i].ID, true
		}
	}
	return 0, false
}

func (s *Stack) index(id WindowID) int {
	for i, w := range s.windows {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// raise moves windows[idx] to the top, keeping the others in order.
func (s *Stack) raise(idx int) {
	w := s.windows[idx]
	copy(s.windows[idx:], s.windows[idx+1:])
	s.windows[len(s.windows)-1] = w
	s.focusTop()
}

// focusTop renumbers ranks and gives focus to the top window only.
func (s *Stack) focusTop() {
	s.renumber()
	for i, w := range s.windows {
		w.Focused = i == len(s.windows)-1
	}
}

func (s *Stack) renumber() {
	for i, w := range s.windows {
		w.Z = i
	}
}

func (s *Stack) clamp(r geom.Rect) geom.Rect {
	if s.bounds.Empty() {
		return r
	}
	return r.ClampInto(s.bounds, minVisibleColumns, s.titleHeight)
}

// minVisibleColumns is how much of a title bar must stay on screen when clamping.
const minVisibleColumns = 4

func (s *Stack) ignored(op string, id WindowID) {
	s.logger.Debug("ignored window operation", zap.String("op", op), zap.Uint32("id", uint32(id)))
}
