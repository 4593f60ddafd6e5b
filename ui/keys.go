package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Enter       key.Binding
	Back        key.Binding
	NextFocus   key.Binding
	PrevFocus   key.Binding
	NextCat     key.Binding
	PrevCat     key.Binding
	Decrease    key.Binding
	Increase    key.Binding
	DecreaseBig key.Binding
	IncreaseBig key.Binding
	Open        key.Binding
	Copy        key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detail")),
	Back:        key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	NextFocus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "price panel")),
	PrevFocus:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev field")),
	NextCat:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next type")),
	PrevCat:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "prev type")),
	Decrease:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/←", "slide -")),
	Increase:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/→", "slide +")),
	DecreaseBig: key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "slide --")),
	IncreaseBig: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "slide ++")),
	Open:        key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
	Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy link")),
	Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh price")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
}

// ShortHelp returns short help key bindings (for help.Model)
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Enter, k.NextFocus, k.NextCat, k.Open, k.Refresh, k.Quit}
}

// FullHelp returns full help key bindings
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back},
		{k.NextFocus, k.PrevFocus, k.NextCat, k.PrevCat},
		{k.Decrease, k.Increase, k.DecreaseBig, k.IncreaseBig},
		{k.Open, k.Copy, k.Refresh, k.Help, k.Quit},
	}
}
