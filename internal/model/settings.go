package model

import (
	"time"
)

// Theme selects the UI color scheme
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// AccentColors is the fixed accent palette
var AccentColors = []string{
	"#EF4444", // red
	"#F97316", // orange
	"#EAB308", // yellow
	"#FACC15", // amber
	"#22C55E", // green
	"#10B981", // emerald
	"#06B6D4", // cyan
	"#0EA5E9", // sky
	"#3B82F6", // blue
	"#1D4ED8", // dark blue
	"#8B5CF6", // purple
	"#D946EF", // fuchsia
	"#6366F1", // indigo
}

// DefaultAccentColor is the emerald accent
const DefaultAccentColor = "#10B981"

// Settings is the one-per-user configuration singleton
type Settings struct {
	UserID             string    `json:"user_id"`
	DefaultTime        int       `json:"default_time"` // Minutes for new tasks
	AccentColor        string    `json:"accent_color"`
	Theme              Theme     `json:"theme"`
	SmartTimeDetection bool      `json:"smart_time_detection"`
	PieTimerEnabled    bool      `json:"pie_timer_enabled"`
	TodoistAPIKey      string    `json:"todoist_api_key,omitempty"`
	TodoistSyncEnabled bool      `json:"todoist_sync_enabled"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings created on first login
func DefaultSettings(userID string) Settings {
	return Settings{
		UserID:             userID,
		DefaultTime:        15,
		AccentColor:        DefaultAccentColor,
		Theme:              ThemeAuto,
		SmartTimeDetection: true,
		PieTimerEnabled:    false,
	}
}

// SettingsPatch is a partial update merged into existing settings
type SettingsPatch struct {
	DefaultTime        *int
	AccentColor        *string
	Theme              *Theme
	SmartTimeDetection *bool
	PieTimerEnabled    *bool
	TodoistAPIKey      *string
	TodoistSyncEnabled *bool
}

// Apply merges the patch into the settings
func (p SettingsPatch) Apply(s *Settings) {
	if p.DefaultTime != nil {
		s.DefaultTime = *p.DefaultTime
	}
	if p.AccentColor != nil {
		s.AccentColor = *p.AccentColor
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.SmartTimeDetection != nil {
		s.SmartTimeDetection = *p.SmartTimeDetection
	}
	if p.PieTimerEnabled != nil {
		s.PieTimerEnabled = *p.PieTimerEnabled
	}
	if p.TodoistAPIKey != nil {
		s.TodoistAPIKey = *p.TodoistAPIKey
	}
	if p.TodoistSyncEnabled != nil {
		s.TodoistSyncEnabled = *p.TodoistSyncEnabled
	}
}
