package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds all key bindings of the window manager.
type KeyMap struct {
	Quit     key.Binding
	Close    key.Binding
	Wallet   key.Binding
	Settings key.Binding
	About    key.Binding
	Copy     key.Binding
	Refresh  key.Binding
	Offline  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close window"),
		),
		Wallet: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "wallet"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		About: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "about"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy wallet dir"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Offline: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle offline"),
		),
	}
}
