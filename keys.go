package main

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for platex
type KeyMap struct {
	// Actions
	Save          key.Binding
	Compile       key.Binding
	ToggleLive    key.Binding
	TogglePreview key.Binding
	ToggleLog     key.Binding
	ToggleTree    key.Binding
	Search        key.Binding
	Assistant     key.Binding
	HelpPane      key.Binding
	Palette       key.Binding
	NextTab       key.Binding
	PrevTab       key.Binding
	CloseTab      key.Binding
	CyclePane     key.Binding
	ClosePane     key.Binding
	Quit          key.Binding
	ShowKeys      key.Binding

	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Home  key.Binding
	End   key.Binding
	PgUp  key.Binding
	PgDn  key.Binding

	// Editing
	Backspace key.Binding
	Delete    key.Binding
}

// ShortHelp returns keybindings for the short help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Compile, k.Palette, k.ShowKeys, k.Quit}
}

// FullHelp returns keybindings for the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.Compile, k.ToggleLive, k.Search},
		{k.TogglePreview, k.ToggleLog, k.ToggleTree, k.Assistant},
		{k.Palette, k.HelpPane, k.NextTab, k.PrevTab},
		{k.CloseTab, k.CyclePane, k.ClosePane, k.Quit},
	}
}
