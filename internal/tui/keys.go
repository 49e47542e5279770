package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Search key.Binding
	Locate key.Binding
	Back   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Search: key.NewBinding(
		key.WithKeys("s", "/"),
		key.WithHelp("s", "search city"),
	),
	Locate: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "use device location"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Locate, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Locate},
		{k.Back, k.Help, k.Quit},
	}
}
