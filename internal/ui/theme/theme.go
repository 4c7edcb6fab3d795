package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rayclock/rayclock/internal/model"
)

// Theme defines the color scheme and styles for the UI. The accent color
// comes from the user's settings; everything else derives from the
// light/dark base palette.
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	// Base styles
	App    lipgloss.Style
	Header lipgloss.Style
	Footer lipgloss.Style

	// Task styles
	TaskNormal   lipgloss.Style
	TaskSelected lipgloss.Style
	TaskCurrent  lipgloss.Style
	TaskDone     lipgloss.Style

	// Component styles
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Label    lipgloss.Style
	Timer    lipgloss.Style

	// Input styles
	Input        lipgloss.Style
	InputFocused lipgloss.Style
	Placeholder  lipgloss.Style

	// Panel styles
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Foreground(t.Foreground),

		Header: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		TaskNormal: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		TaskSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Padding(0, 1),

		TaskCurrent: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			Padding(0, 1),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Strikethrough(true).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Timer: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Accent).
			Padding(0, 1),

		Placeholder: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		PanelTitle: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),
	}
}

// build assembles a theme from a base palette and accent color
func build(name string, dark bool, accent string) Theme {
	t := Theme{
		Name:    name,
		Accent:  lipgloss.Color(accent),
		Success: lipgloss.Color("#10B981"),
		Warning: lipgloss.Color("#F59E0B"),
		Error:   lipgloss.Color("#EF4444"),
		Info:    lipgloss.Color("#3B82F6"),
	}
	if dark {
		t.Background = lipgloss.Color("#111827")
		t.Foreground = lipgloss.Color("#F9FAFB")
		t.Subtle = lipgloss.Color("#6B7280")
		t.Highlight = lipgloss.Color("#374151")
		t.Border = lipgloss.Color("#4B5563")
	} else {
		t.Background = lipgloss.Color("#FFFFFF")
		t.Foreground = lipgloss.Color("#111827")
		t.Subtle = lipgloss.Color("#9CA3AF")
		t.Highlight = lipgloss.Color("#E5E7EB")
		t.Border = lipgloss.Color("#D1D5DB")
	}
	return t
}

// FromSettings derives the active theme from the user's preferences.
// Auto follows the terminal's background.
func FromSettings(s *model.Settings) Theme {
	accent := s.AccentColor
	if accent == "" {
		accent = model.DefaultAccentColor
	}
	switch s.Theme {
	case model.ThemeLight:
		return build("light", false, accent)
	case model.ThemeDark:
		return build("dark", true, accent)
	default:
		// Auto follows the terminal background
		return build("auto", lipgloss.HasDarkBackground(), accent)
	}
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  build("dark", true, model.DefaultAccentColor),
	Styles: NewStyles(build("dark", true, model.DefaultAccentColor)),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Apply rebuilds the current theme from settings
func Apply(s *model.Settings) {
	SetTheme(FromSettings(s))
}

// NextAccent returns the accent color after the given one in the
// palette, wrapping around.
func NextAccent(current string) string {
	for i, c := range model.AccentColors {
		if c == current {
			return model.AccentColors[(i+1)%len(model.AccentColors)]
		}
	}
	return model.AccentColors[0]
}
