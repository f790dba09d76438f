package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up             key.Binding
	down           key.Binding
	next           key.Binding
	prev           key.Binding
	newTask        key.Binding
	service        key.Binding
	retry          key.Binding
	remove         key.Binding
	copyError      key.Binding
	clearQueued    key.Binding
	clearCompleted key.Binding
	clearSucceeded key.Binding
	clearFailed    key.Binding
	retryFailed    key.Binding
	clearSelection key.Binding
	restart        key.Binding
	enter          key.Binding
	back           key.Binding
	yes            key.Binding
	no             key.Binding
	help           key.Binding
	quit           key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		next:           key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		prev:           key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		newTask:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		service:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next service")),
		retry:          key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		remove:         key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		copyError:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy error")),
		clearQueued:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "clear queued")),
		clearSucceeded: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "clear succeeded")),
		clearFailed:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "clear failed")),
		clearCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed")),
		retryFailed:    key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "retry failed")),
		clearSelection: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "clear selection")),
		restart:        key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "restart server")),
		enter:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ok")),
		back:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:            key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "yes")),
		no:             key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.newTask, k.retry, k.remove, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.next, k.prev},
		{k.newTask, k.service, k.retry, k.remove, k.copyError},
		{k.clearQueued, k.clearSucceeded, k.clearFailed, k.clearCompleted},
		{k.retryFailed, k.clearSelection, k.restart, k.help, k.quit},
	}
}
