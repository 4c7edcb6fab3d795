package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/store"
	"github.com/rayclock/rayclock/internal/ui/theme"
)

// SettingsChanged notifies the root model that settings were saved so
// other views can pick up the change.
type SettingsChanged struct {
	Settings *model.Settings
}

// settingsField enumerates the editable rows
type settingsField int

const (
	fieldDefaultTime settingsField = iota
	fieldAccentColor
	fieldTheme
	fieldSmartTime
	fieldPieTimer
	fieldTodoistSync
	fieldTodoistKey
	fieldCount
)

// SettingsView edits the user's preferences in place.
type SettingsView struct {
	store    *store.Store
	userID   string
	settings *model.Settings
	width    int
	height   int

	cursor   settingsField
	keyInput textinput.Model
	editing  bool

	statusMsg string
	errorMsg  string
}

// NewSettingsView creates a new settings view
func NewSettingsView(st *store.Store, userID string, settings *model.Settings) SettingsView {
	input := textinput.New()
	input.Placeholder = "Todoist API token"
	input.EchoMode = textinput.EchoPassword
	input.CharLimit = 64

	return SettingsView{
		store:    st,
		userID:   userID,
		settings: settings,
		keyInput: input,
	}
}

// Init initializes the settings view
func (v SettingsView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v SettingsView) SetSize(width, height int) SettingsView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is in input mode
func (v SettingsView) IsInputMode() bool {
	return v.editing
}

type settingsSavedMsg struct {
	settings *model.Settings
	err      error
}

func (v SettingsView) save(patch model.SettingsPatch) tea.Cmd {
	return func() tea.Msg {
		settings, err := v.store.UpdateSettings(context.Background(), v.userID, patch)
		return settingsSavedMsg{settings: settings, err: err}
	}
}

// Update handles messages
func (v SettingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			v.errorMsg = msg.err.Error()
			return v, nil
		}
		v.settings = msg.settings
		theme.Apply(msg.settings)
		v.statusMsg = "Saved"
		return v, func() tea.Msg { return SettingsChanged{Settings: msg.settings} }

	case tea.KeyMsg:
		if v.editing {
			return v.updateKeyInput(msg)
		}

		v.statusMsg = ""
		v.errorMsg = ""

		switch msg.String() {
		case "j", "down":
			if v.cursor < fieldCount-1 {
				v.cursor++
			}
		case "k", "up":
			if v.cursor > 0 {
				v.cursor--
			}
		case "enter", "l", "right", " ":
			return v.activate(1)
		case "h", "left":
			return v.activate(-1)
		}
	}

	return v, nil
}

func (v SettingsView) updateKeyInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		token := strings.TrimSpace(v.keyInput.Value())
		v.editing = false
		v.keyInput.Blur()
		return v, v.save(model.SettingsPatch{TodoistAPIKey: &token})
	case "esc":
		v.editing = false
		v.keyInput.Reset()
		v.keyInput.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.keyInput, cmd = v.keyInput.Update(msg)
	return v, cmd
}

// activate applies the action for the selected row. direction is +1 or
// -1 for fields with an ordered range.
func (v SettingsView) activate(direction int) (tea.Model, tea.Cmd) {
	switch v.cursor {
	case fieldDefaultTime:
		next := v.settings.DefaultTime + 5*direction
		if next < 5 {
			next = 5
		}
		if next > 240 {
			next = 240
		}
		return v, v.save(model.SettingsPatch{DefaultTime: &next})

	case fieldAccentColor:
		next := theme.NextAccent(v.settings.AccentColor)
		if direction < 0 {
			// Walk backwards by cycling forward length-1 times
			for i := 0; i < len(model.AccentColors)-2; i++ {
				next = theme.NextAccent(next)
			}
		}
		return v, v.save(model.SettingsPatch{AccentColor: &next})

	case fieldTheme:
		next := nextTheme(v.settings.Theme)
		return v, v.save(model.SettingsPatch{Theme: &next})

	case fieldSmartTime:
		toggled := !v.settings.SmartTimeDetection
		return v, v.save(model.SettingsPatch{SmartTimeDetection: &toggled})

	case fieldPieTimer:
		toggled := !v.settings.PieTimerEnabled
		return v, v.save(model.SettingsPatch{PieTimerEnabled: &toggled})

	case fieldTodoistSync:
		toggled := !v.settings.TodoistSyncEnabled
		return v, v.save(model.SettingsPatch{TodoistSyncEnabled: &toggled})

	case fieldTodoistKey:
		v.editing = true
		v.keyInput.SetValue(v.settings.TodoistAPIKey)
		v.keyInput.Focus()
		return v, textinput.Blink
	}

	return v, nil
}

func nextTheme(t model.Theme) model.Theme {
	switch t {
	case model.ThemeAuto:
		return model.ThemeLight
	case model.ThemeLight:
		return model.ThemeDark
	default:
		return model.ThemeAuto
	}
}

// View renders the settings view
func (v SettingsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles
	var sections []string

	sections = append(sections, styles.Title.Render("Settings"))

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	keyDisplay := "not set"
	if v.settings.TodoistAPIKey != "" {
		keyDisplay = "••••••••"
	}

	rows := []struct {
		field settingsField
		label string
		value string
	}{
		{fieldDefaultTime, "Default time", fmt.Sprintf("%d min", v.settings.DefaultTime)},
		{fieldAccentColor, "Accent color", v.settings.AccentColor},
		{fieldTheme, "Theme", string(v.settings.Theme)},
		{fieldSmartTime, "Smart time detection", onOff(v.settings.SmartTimeDetection)},
		{fieldPieTimer, "Pie timer", onOff(v.settings.PieTimerEnabled)},
		{fieldTodoistSync, "Todoist sync", onOff(v.settings.TodoistSyncEnabled)},
		{fieldTodoistKey, "Todoist API token", keyDisplay},
	}

	for _, row := range rows {
		label := styles.Label.Width(24).Render(row.label)
		value := lipgloss.NewStyle().Foreground(t.Foreground).Render(row.value)
		if row.field == fieldAccentColor {
			value = lipgloss.NewStyle().Foreground(lipgloss.Color(v.settings.AccentColor)).Render(row.value)
		}

		line := "  " + label + value
		if row.field == v.cursor {
			line = styles.TaskCurrent.Render("> " + label + value)
		}
		sections = append(sections, line)
	}

	if v.editing {
		sections = append(sections, "", styles.InputFocused.Render(v.keyInput.View()))
	}

	if v.errorMsg != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(t.Error).Render(v.errorMsg))
	} else if v.statusMsg != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(t.Success).Render(v.statusMsg))
	}

	return strings.Join(sections, "\n")
}
