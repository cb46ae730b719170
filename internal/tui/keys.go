package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keybindings for the dashboard.
type keyMap struct {
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Update    key.Binding
	Uninstall key.Binding
	Channel   key.Binding
	Notes     key.Binding
	Refresh   key.Binding
	Back      key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("k/up", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/down", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "install/launch"),
	),
	Update: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "update"),
	),
	Uninstall: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "uninstall"),
	),
	Channel: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "toggle pre-release"),
	),
	Notes: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "release notes"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}
