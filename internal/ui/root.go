package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rayclock/rayclock/internal/app"
	"github.com/rayclock/rayclock/internal/calendar"
	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/todoist"
	"github.com/rayclock/rayclock/internal/ui/theme"
	"github.com/rayclock/rayclock/internal/ui/views"
)

// RootModel is the main application model that manages views
type RootModel struct {
	app      *app.App
	user     *model.User
	settings *model.Settings
	keys     KeyMap
	help     help.Model
	width    int
	height   int

	calClient *calendar.Client

	currentView  View
	timerView    views.TimerView
	presetsView  views.PresetsView
	reportView   views.ReportView
	calendarView views.CalendarView
	settingsView views.SettingsView
	loginView    views.LoginView
	helpVisible  bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model. calClient may be nil when no
// CalDAV credentials are configured.
func NewRootModel(application *app.App, user *model.User, settings *model.Settings, calClient *calendar.Client) RootModel {
	h := help.New()
	h.ShowAll = false

	theme.Apply(settings)

	return RootModel{
		app:          application,
		user:         user,
		settings:     settings,
		keys:         DefaultKeyMap(),
		help:         h,
		calClient:    calClient,
		currentView:  ViewTimer,
		timerView:    views.NewTimerView(application.Store, application.Notifier, user.ID, settings),
		presetsView:  views.NewPresetsView(application.Store, user.ID),
		reportView:   views.NewReportView(application.Store, user.ID),
		calendarView: views.NewCalendarView(application.Store, calClient, user.ID),
		settingsView: views.NewSettingsView(application.Store, user.ID, settings),
	}
}

// NewRootModelWithLogin creates a root model that starts at the login
// view; the other views are built once a session is established.
func NewRootModelWithLogin(application *app.App, calClient *calendar.Client) RootModel {
	h := help.New()
	h.ShowAll = false

	return RootModel{
		app:         application,
		keys:        DefaultKeyMap(),
		help:        h,
		calClient:   calClient,
		currentView: ViewLogin,
		loginView:   views.NewLoginView(application.Auth, application.Store),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	if m.currentView == ViewLogin {
		return m.loginView.Init()
	}
	return m.timerView.Init()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header and footer
		contentHeight := m.height - 4
		m.timerView = m.timerView.SetSize(m.width, contentHeight)
		m.presetsView = m.presetsView.SetSize(m.width, contentHeight)
		m.reportView = m.reportView.SetSize(m.width, contentHeight)
		m.calendarView = m.calendarView.SetSize(m.width, contentHeight)
		m.settingsView = m.settingsView.SetSize(m.width, contentHeight)
		m.loginView = m.loginView.SetSize(m.width, contentHeight)

	case tea.KeyMsg:
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.AccentCycle):
			return m.cycleAccent()

		case key.Matches(msg, m.keys.Sync):
			return m, m.syncTodoist()
		}

		if isInputMode {
			break // Fall through to view delegation
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			m.help.ShowAll = m.helpVisible
			return m, nil

		case key.Matches(msg, m.keys.TimerView):
			m.currentView = ViewTimer
			return m, m.timerView.Init() // Reload tasks when switching back
		case key.Matches(msg, m.keys.PresetsView):
			m.currentView = ViewPresets
			return m, m.presetsView.Init()
		case key.Matches(msg, m.keys.ReportView):
			m.currentView = ViewReport
			return m, m.reportView.Init()
		case key.Matches(msg, m.keys.CalendarView):
			m.currentView = ViewCalendar
			return m, m.calendarView.Init()
		case key.Matches(msg, m.keys.SettingsView):
			m.currentView = ViewSettings
			return m, m.settingsView.Init()
		}

	case views.SettingsChanged:
		m.settings = msg.Settings
		m.timerView = m.timerView.SetSettings(msg.Settings)
		return m, nil

	case views.LoginSucceeded:
		m.user = msg.User
		m.settings = msg.Settings
		theme.Apply(msg.Settings)

		contentHeight := m.height - 4
		m.timerView = views.NewTimerView(m.app.Store, m.app.Notifier, msg.User.ID, msg.Settings).SetSize(m.width, contentHeight)
		m.presetsView = views.NewPresetsView(m.app.Store, msg.User.ID).SetSize(m.width, contentHeight)
		m.reportView = views.NewReportView(m.app.Store, msg.User.ID).SetSize(m.width, contentHeight)
		m.calendarView = views.NewCalendarView(m.app.Store, m.calClient, msg.User.ID).SetSize(m.width, contentHeight)
		m.settingsView = views.NewSettingsView(m.app.Store, msg.User.ID, msg.Settings).SetSize(m.width, contentHeight)

		m.currentView = ViewTimer
		return m, m.timerView.Init()

	case SyncFinishedMsg:
		if msg.Err != nil {
			m.errorMsg = fmt.Sprintf("Sync failed: %v", msg.Err)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Synced: %d imported, %d skipped", msg.Result.Imported, msg.Result.Skipped)
		if m.app.Notifier != nil {
			m.app.Notifier.SendSyncResult(msg.Result.Imported)
		}
		// Refresh the task list with the imported tasks
		return m, m.timerView.Init()

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil
	}

	// The timer view receives every non-key message so its countdown
	// keeps running while other views are visible. Key input goes only
	// to the view on screen.
	if m.user != nil {
		if _, isKey := msg.(tea.KeyMsg); !isKey || m.currentView == ViewTimer {
			newTimerView, cmd := m.timerView.Update(msg)
			m.timerView = newTimerView.(views.TimerView)
			cmds = append(cmds, cmd)
		}
	}

	switch m.currentView {
	case ViewLogin:
		newLoginView, cmd := m.loginView.Update(msg)
		m.loginView = newLoginView.(views.LoginView)
		cmds = append(cmds, cmd)
	case ViewPresets:
		newPresetsView, cmd := m.presetsView.Update(msg)
		m.presetsView = newPresetsView.(views.PresetsView)
		cmds = append(cmds, cmd)
	case ViewReport:
		newReportView, cmd := m.reportView.Update(msg)
		m.reportView = newReportView.(views.ReportView)
		cmds = append(cmds, cmd)
	case ViewCalendar:
		newCalendarView, cmd := m.calendarView.Update(msg)
		m.calendarView = newCalendarView.(views.CalendarView)
		cmds = append(cmds, cmd)
	case ViewSettings:
		newSettingsView, cmd := m.settingsView.Update(msg)
		m.settingsView = newSettingsView.(views.SettingsView)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewTimer:
		return m.timerView.IsInputMode()
	case ViewSettings:
		return m.settingsView.IsInputMode()
	case ViewLogin:
		return m.loginView.IsInputMode()
	}
	return false
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	styles := theme.Current.Styles
	var sections []string

	sections = append(sections, m.renderHeader())

	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewLogin:
			content = m.loginView.View()
		case ViewTimer:
			content = m.timerView.View()
		case ViewPresets:
			content = m.presetsView.View()
		case ViewReport:
			content = m.reportView.View()
		case ViewCalendar:
			content = m.calendarView.View()
		case ViewSettings:
			content = m.settingsView.View()
		default:
			content = styles.Panel.Render("View not implemented")
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("rayclock")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	viewIndicator := viewStyle.Render(fmt.Sprintf("[%s]", m.currentView.String()))

	userIndicator := ""
	if m.user != nil {
		userIndicator = viewStyle.Render(m.user.Email)
	}

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)
	rightSide := userIndicator

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if gap < 0 {
		gap = 0
	}

	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	var line1, line2 string

	switch m.currentView {
	case ViewLogin:
		line1 = key("tab", "next field") + sep +
			key("enter", "submit") + sep +
			key("C-n", "login/signup") + sep +
			key("C-c", "quit")

	case ViewTimer:
		if m.timerView.IsInputMode() {
			line1 = key("enter", "confirm") + sep + key("esc", "cancel")
		} else {
			line1 = key("s/space", "start/pause") + sep +
				key("+/-", "adjust") + sep +
				key("c", "complete") + sep +
				key("n", "skip") + sep +
				key("a", "add") + sep +
				key("d", "del")
			line2 = key("x", "clear done") + sep +
				key("C-s", "sync") + sep +
				key("1-5", "views") + sep +
				key("?", "help")
		}

	case ViewPresets:
		line1 = key("enter", "apply") + sep +
			key("y", "duplicate") + sep +
			key("d", "delete") + sep +
			key("j/k", "navigate")
		line2 = key("1-5", "views") + sep + key("?", "help")

	case ViewReport:
		line1 = key("r", "refresh") + sep + key("x", "clear history")
		line2 = key("1-5", "views") + sep + key("?", "help")

	case ViewCalendar:
		line1 = key("tab", "events/reminders") + sep +
			key("i", "import") + sep +
			key("r", "refresh")
		line2 = key("1-5", "views") + sep + key("?", "help")

	case ViewSettings:
		if m.settingsView.IsInputMode() {
			line1 = key("enter", "save") + sep + key("esc", "cancel")
		} else {
			line1 = key("j/k", "navigate") + sep +
				key("enter/h/l", "change")
			line2 = key("1-5", "views") + sep + key("?", "help")
		}

	default:
		line1 = key("1-5", "views") + sep + key("?", "help")
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, line1)
	}
	if line2 != "" {
		lines = append(lines, line2)
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Info).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(14)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder

	b.WriteString(titleStyle.Render("Ray Clock Help"))
	b.WriteString("\n\n")

	section := func(name string, entries [][]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, kv := range entries {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}

	section("Timer", [][]string{
		{"s / space", "Start or pause the countdown"},
		{"+ / -", "Add or remove five minutes"},
		{"c", "Complete the current task now"},
		{"n", "Skip to the next task"},
	})

	section("Tasks", [][]string{
		{"a", "Add a task (trailing number sets minutes)"},
		{"d", "Delete the selected task"},
		{"x", "Clear completed tasks"},
		{"j / k", "Move the selection"},
	})

	section("Views", [][]string{
		{"1-5", "Timer, presets, report, calendar, settings"},
		{"?", "Toggle this help"},
	})

	section("System", [][]string{
		{"ctrl+s", "Pull tasks from Todoist"},
		{"ctrl+t", "Cycle the accent color"},
		{"q / ctrl+c", "Quit"},
	})

	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press ? to close"))

	return b.String()
}

// cycleAccent advances the accent color and persists it
func (m RootModel) cycleAccent() (tea.Model, tea.Cmd) {
	if m.user == nil {
		return m, nil
	}
	next := theme.NextAccent(m.settings.AccentColor)
	settings, err := m.app.Store.UpdateSettings(context.Background(), m.user.ID,
		model.SettingsPatch{AccentColor: &next})
	if err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}
	m.settings = settings
	m.timerView = m.timerView.SetSettings(settings)
	theme.Apply(settings)
	m.statusMsg = fmt.Sprintf("Accent: %s", next)
	return m, nil
}

// syncTodoist pulls tasks from Todoist when sync is configured
func (m RootModel) syncTodoist() tea.Cmd {
	if m.user == nil {
		return nil
	}
	if !m.settings.TodoistSyncEnabled || m.settings.TodoistAPIKey == "" {
		return func() tea.Msg {
			return StatusMsg{Message: "Todoist sync is not configured (see settings)"}
		}
	}

	syncer := todoist.NewSyncer(todoist.NewClient(m.settings.TodoistAPIKey), m.app.Store)
	userID := m.user.ID
	return func() tea.Msg {
		result, err := syncer.Pull(context.Background(), userID)
		return SyncFinishedMsg{Result: result, Err: err}
	}
}
