package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Switch    key.Binding
	Search    key.Binding
	Sort      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Reload    key.Binding
	Back      key.Binding
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Switch:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "products/categories")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by price")),
		PrevPage:  key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "prev page")),
		NextPage:  key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next page")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s", "enter"), key.WithHelp("enter", "save")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	}
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += " • "
		}
		out += FormatKey(b.Help().Key, b.Help().Desc)
	}
	return helpStyle.Render(out)
}
