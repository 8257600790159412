package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/mulligan/internal/round"
)

type keyMap struct {
	More   key.Binding
	Less   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Finish key.Binding
	Save   key.Binding
	Help   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		More:   key.NewBinding(key.WithKeys("+", "=", "up", "k"), key.WithHelp("+/↑", "stroke")),
		Less:   key.NewBinding(key.WithKeys("-", "down", "j"), key.WithHelp("-/↓", "undo stroke")),
		Next:   key.NewBinding(key.WithKeys("enter", "n", "right", "l"), key.WithHelp("enter", "next hole")),
		Prev:   key.NewBinding(key.WithKeys("p", "left", "h"), key.WithHelp("←", "previous hole")),
		Finish: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Save:   key.NewBinding(key.WithKeys("s", "q", "esc"), key.WithHelp("s", "save & exit")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	}
}

// forState relabels and enables bindings for what the session allows now.
func (k keyMap) forState(s *round.Session) keyMap {
	switch s.State() {
	case round.StateReviewing:
		k.More.SetEnabled(false)
		k.Less.SetEnabled(false)
		k.Next.SetHelp("enter", "finish")
		k.Prev.SetHelp("←", "back to last hole")
	case round.StatePlaying:
		if s.FocusIndex() != s.CurrentIndex() {
			k.Next.SetHelp("enter", "back to current hole")
		} else if s.IsLastHole() {
			k.Next.SetHelp("enter", "review round")
		}
		k.Prev.SetEnabled(s.FocusIndex() > 0)
		k.Finish.SetEnabled(s.IsLastHole())
	}
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.More, k.Less, k.Next, k.Prev, k.Save, k.Help}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.More, k.Less},
		{k.Next, k.Prev},
		{k.Finish, k.Save, k.Help},
	}
}
