package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the desktop-wide bindings. Plain keys belong to the focused
// window, so everything here uses ctrl or function keys.
type keyMap struct {
	Quit     key.Binding
	Start    key.Binding
	Terminal key.Binding
	About    key.Binding
	Close    key.Binding

	MenuUp     key.Binding
	MenuDown   key.Binding
	MenuSelect key.Binding
	MenuClose  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Start: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "start"),
		),
		Terminal: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "terminal"),
		),
		About: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "about"),
		),
		Close: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close"),
		),
		MenuUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		MenuDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		MenuSelect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		MenuClose: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close menu"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Terminal, k.About, k.Close, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.ShortHelp(),
		{k.MenuUp, k.MenuDown, k.MenuSelect, k.MenuClose},
	}
}

// newHelp returns a help model that renders plain text, since the canvas
// applies its own styles cell by cell.
func newHelp() help.Model {
	h := help.New()
	h.Styles = help.Styles{}
	return h
}
