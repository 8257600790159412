package historyui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevTab  key.Binding
	NextTab  key.Binding
	Open     key.Binding
	Course   key.Binding
	Filter   key.Binding
	Wider    key.Binding
	Narrower key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		PrevTab:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "tabs")),
		NextTab:  key.NewBinding(key.WithKeys("right", "l")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open card")),
		Course:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle course")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "settings")),
		Wider:    key.NewBinding(key.WithKeys("="), key.WithHelp("-/=", "trend window")),
		Narrower: key.NewBinding(key.WithKeys("-")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevTab, k.Open, k.Course, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevTab, k.Open},
		{k.Course, k.Filter, k.Wider},
		{k.Help, k.Quit},
	}
}
