package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	RealTime  key.Binding
	Daily     key.Binding
	Monthly   key.Binding
	Yearly    key.Binding
	PrevTab   key.Binding
	NextTab   key.Binding
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Close     key.Binding
	ScrollTop key.Binding
	ScrollEnd key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	RealTime:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "real-time")),
	Daily:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "daily")),
	Monthly:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "monthly")),
	Yearly:    key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "yearly")),
	PrevTab:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("left/right", "period")),
	NextTab:   key.NewBinding(key.WithKeys("right", "l")),
	Up:        key.NewBinding(key.WithKeys("up", "k", "shift+tab"), key.WithHelp("up/down", "select")),
	Down:      key.NewBinding(key.WithKeys("down", "j", "tab")),
	Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Close:     key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
	ScrollTop: key.NewBinding(key.WithKeys("g", "home")),
	ScrollEnd: key.NewBinding(key.WithKeys("G", "end")),
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		if out != "" {
			out += "  "
		}
		out += h.Key + ": " + h.Desc
	}
	return out
}
