package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	toggle  key.Binding
	liked   key.Binding
	enter   key.Binding
	back    key.Binding
	privacy key.Binding
	yes     key.Binding
	no      key.Binding
	open    key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		liked:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "liked songs")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		privacy: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "privacy")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "publish")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
		open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "start over")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.toggle, k.liked, k.enter},
		{k.back, k.privacy, k.yes, k.no},
		{k.open, k.restart, k.quit},
	}
}
