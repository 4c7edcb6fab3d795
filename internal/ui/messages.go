package ui

import (
	"github.com/rayclock/rayclock/internal/todoist"
)

// View represents the current active view
type View int

const (
	ViewTimer View = iota
	ViewPresets
	ViewReport
	ViewCalendar
	ViewSettings
	ViewLogin
	ViewHelp
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewTimer:
		return "Timer"
	case ViewPresets:
		return "Presets"
	case ViewReport:
		return "Report"
	case ViewCalendar:
		return "Calendar"
	case ViewSettings:
		return "Settings"
	case ViewLogin:
		return "Login"
	case ViewHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// SyncFinishedMsg reports a Todoist pull
type SyncFinishedMsg struct {
	Result todoist.Result
	Err    error
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}
