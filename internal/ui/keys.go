package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause    key.Binding
	Next     key.Binding
	Prev     key.Binding
	Restart  key.Binding
	Shuffle  key.Binding
	Rotate   key.Binding
	Graph    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pause:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Next:     key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next preset")),
		Prev:     key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "previous preset")),
		Restart:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Shuffle:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		Rotate:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto-advance")),
		Graph:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "stats graph")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Next, k.Prev, k.Graph, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Restart, k.Graph, k.Help, k.Quit},
		{k.Next, k.Prev, k.Shuffle, k.Rotate},
		{k.Up, k.Down, k.PageUp, k.PageDown},
	}
}
