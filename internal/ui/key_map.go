package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	focus   key.Binding
	enter   key.Binding
	back    key.Binding
	csv     key.Binding
	json    key.Binding
	dismiss key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		focus:   key.NewBinding(key.WithKeys("tab", "/"), key.WithHelp("tab", "choose file")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		csv:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "import csv")),
		json:    key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "import json")),
		dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss error")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.focus, k.csv, k.json, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.focus, k.enter, k.back},
		{k.csv, k.json, k.dismiss},
		{k.quit},
	}
}
