package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Back     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Home     key.Binding
	End      key.Binding

	// Views
	Browse     key.Binding
	WatchLater key.Binding

	// Actions
	Quit        key.Binding
	Help        key.Binding
	Escape      key.Binding
	Search      key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	Sort        key.Binding
	Refresh     key.Binding
	Save        key.Binding
	Open        key.Binding
	Trailer     key.Binding
	WeightUp    key.Binding
	WeightDown  key.Binding
	SortList    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "details"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left", "backspace", "esc"),
			key.WithHelp("h/←", "back"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "n", "pgdown"),
			key.WithHelp("]", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "p", "pgup"),
			key.WithHelp("[", "previous page"),
		),
		Home: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),

		// Views
		Browse: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "browse"),
		),
		WatchLater: key.NewBinding(
			key.WithKeys("2", "W"),
			key.WithHelp("2", "watch later"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filters"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "clear filters"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Save: key.NewBinding(
			key.WithKeys(" ", "w"),
			key.WithHelp("space", "watch later"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open page"),
		),
		Trailer: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "trailer"),
		),
		WeightUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "raise priority"),
		),
		WeightDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "lower priority"),
		),
		SortList: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "order by weight/date"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
