package kiosk

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Next     key.Binding
	Previous key.Binding
	Left     key.Binding
	Right    key.Binding
	Submit   key.Binding
	Dismiss  key.Binding
	Quit     key.Binding
}

// DefaultKeyMap moves focus with tab and the vertical arrows; the
// horizontal arrows change the movie and seat pickers.
var DefaultKeyMap = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab/↓", "next field"),
	),
	Previous: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab/↑", "previous field"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous option"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next option"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "complete purchase"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc", "enter"),
		key.WithHelp("esc", "dismiss"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}
