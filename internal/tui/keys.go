package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	Like      key.Binding
	Order     key.Binding
	Refresh   key.Binding
	Portfolio key.Binding
	Services  key.Binding
	Dashboard key.Binding
	Admin     key.Binding
	Login     key.Binding
	Signup    key.Binding
	Block     key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
	Logout    key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	NextPage:  key.NewBinding(key.WithKeys("right", "n"), key.WithHelp("→/n", "next page")),
	PrevPage:  key.NewBinding(key.WithKeys("left", "p"), key.WithHelp("←/p", "prev page")),
	Like:      key.NewBinding(key.WithKeys("x", "enter"), key.WithHelp("x", "like/unlike")),
	Order:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Portfolio: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "portfolio")),
	Services:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "services")),
	Dashboard: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "dashboard")),
	Admin:     key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "admin")),
	Login:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "log in")),
	Signup:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign up")),
	Block:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "block/unblock")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Logout:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
}
