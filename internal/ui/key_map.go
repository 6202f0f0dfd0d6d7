package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	prev    key.Binding
	next    key.Binding
	focus   key.Binding
	submit  key.Binding
	edit    key.Binding
	cancel  key.Binding
	remove  key.Binding
	reload  key.Binding
	signOut key.Binding
	quit    key.Binding
	forceQ  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		remove:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		signOut: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "sign out")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		forceQ:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.focus, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.prev, k.next},
		{k.submit, k.edit, k.remove, k.cancel},
		{k.focus, k.reload, k.signOut, k.quit},
	}
}

// inputHelp lists the bindings active while the add field has focus.
func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.submit, k.focus, k.signOut, k.forceQ}
}

// listHelp lists the bindings active while the task list has focus.
func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.up, k.down, k.prev, k.next, k.edit, k.remove, k.reload, k.focus, k.quit}
}

// editHelp lists the bindings active while a task is being edited.
func (k keyMap) editHelp() []key.Binding {
	save := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save"))
	return []key.Binding{save, k.cancel, k.forceQ}
}
