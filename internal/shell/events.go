package shell

import (
	"github.com/1broseidon/retrodesk/internal/geom"
	"github.com/1broseidon/retrodesk/internal/winstack"
)

// Event is a structured input queued for the next fast tick.
type Event interface {
	isEvent()
}

// PointerPress is a primary button press at a desktop cell.
type PointerPress struct{ At geom.Point }

// PointerMotion is pointer movement with the primary button held.
type PointerMotion struct{ At geom.Point }

// PointerRelease ends a press.
type PointerRelease struct{ At geom.Point }

// Key identifies a keyboard input.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyEscape
)

// KeyInput is a key press delivered to the focused window. Rune is set for KeyRune.
type KeyInput struct {
	Key  Key
	Rune rune
}

// OpenTerminal opens the terminal window, or raises it when already open.
type OpenTerminal struct{}

// OpenAbout opens an About dialog.
type OpenAbout struct{}

// RaiseWindow focuses a window without starting a drag.
type RaiseWindow struct{ ID winstack.WindowID }

// CloseWindow closes a window.
type CloseWindow struct{ ID winstack.WindowID }

// CloseFocused closes whichever window has focus when the event is applied.
type CloseFocused struct{}

// Resize sets the desktop area windows are kept inside.
type Resize struct{ Width, Height int }

func (PointerPress) isEvent()   {}
func (PointerMotion) isEvent()  {}
func (PointerRelease) isEvent() {}
func (KeyInput) isEvent()       {}
func (OpenTerminal) isEvent()   {}
func (OpenAbout) isEvent()      {}
func (RaiseWindow) isEvent()    {}
func (CloseWindow) isEvent()    {}
func (CloseFocused) isEvent()   {}
func (Resize) isEvent()         {}
