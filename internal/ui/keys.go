package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Task actions
	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Skip      key.Binding
	StartStop key.Binding
	AddTime   key.Binding
	SubTime   key.Binding
	Complete  key.Binding

	// Views
	TimerView    key.Binding
	PresetsView  key.Binding
	ReportView   key.Binding
	CalendarView key.Binding
	SettingsView key.Binding

	// Power user
	Sync        key.Binding
	AccentCycle key.Binding
	Help        key.Binding

	// General
	Quit    key.Binding
	Back    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),

		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Skip: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "skip"),
		),
		StartStop: key.NewBinding(
			key.WithKeys("s", " "),
			key.WithHelp("s/space", "start/pause"),
		),
		AddTime: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "+5 min"),
		),
		SubTime: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "-5 min"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete now"),
		),

		TimerView: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "timer"),
		),
		PresetsView: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "presets"),
		),
		ReportView: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "report"),
		),
		CalendarView: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "calendar"),
		),
		SettingsView: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "settings"),
		),

		Sync: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "sync"),
		),
		AccentCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "accent"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("escape"),
			key.WithHelp("esc", "back"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("escape"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Add, k.Edit, k.Delete, k.Skip},
		{k.StartStop, k.AddTime, k.SubTime, k.Complete},
		{k.TimerView, k.PresetsView, k.ReportView, k.CalendarView, k.SettingsView},
		{k.Sync, k.AccentCycle, k.Help, k.Quit},
	}
}
