package components

import "github.com/charmbracelet/bubbles/key"

// ListColumnKeyMap defines key bindings for list column navigation
type ListColumnKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
}

// DefaultListColumnKeyMap returns the default list column key bindings
func DefaultListColumnKeyMap() ListColumnKeyMap {
	return ListColumnKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("C-u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "half page down"),
		),
	}
}

// InspectorKeyMap defines key bindings for scrolling the detail panel
type InspectorKeyMap struct {
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

// DefaultInspectorKeyMap returns the default inspector key bindings
func DefaultInspectorKeyMap() InspectorKeyMap {
	return InspectorKeyMap{
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up", "ctrl+u"),
			key.WithHelp("k/↑", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down", "ctrl+d"),
			key.WithHelp("j/↓", "scroll down"),
		),
	}
}

// Package-level key map instances
var (
	ListColumnKeys = DefaultListColumnKeyMap()
	InspectorKeys  = DefaultInspectorKeyMap()
)
