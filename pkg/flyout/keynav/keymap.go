package keynav

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings the manager reacts to. Up/Down are used when
// Vertical is set, Left/Right otherwise.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Home  key.Binding
	End   key.Binding
	Tab   key.Binding
}

// DefaultKeyMap returns arrow, home/end and tab bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous item")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next item")),
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous item")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next item")),
		Home:  key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first item")),
		End:   key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last item")),
		Tab:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "leave list")),
	}
}

// Bindings returns the bindings that apply for the given orientation, in
// help order.
func (k KeyMap) Bindings(vertical, homeAndEnd bool) []key.Binding {
	out := []key.Binding{k.Left, k.Right}
	if vertical {
		out = []key.Binding{k.Up, k.Down}
	}
	if homeAndEnd {
		out = append(out, k.Home, k.End)
	}
	return append(out, k.Tab)
}
