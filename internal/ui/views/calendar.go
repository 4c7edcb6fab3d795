package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rayclock/rayclock/internal/calendar"
	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/store"
	"github.com/rayclock/rayclock/internal/ui/theme"
)

// CalendarView shows events and reminders pulled from a CalDAV account.
// The data is read-only; reminders can be imported as tasks.
type CalendarView struct {
	store  *store.Store
	client *calendar.Client
	userID string
	width  int
	height int

	events    []model.CalendarEvent
	reminders []model.Reminder
	showTodos bool
	cursor    int
	loading   bool
	loaded    bool

	statusMsg string
	errorMsg  string
}

// NewCalendarView creates a new calendar view. client is nil when no
// CalDAV credentials are configured.
func NewCalendarView(st *store.Store, client *calendar.Client, userID string) CalendarView {
	return CalendarView{
		store:  st,
		client: client,
		userID: userID,
	}
}

// Init initializes the calendar view
func (v CalendarView) Init() tea.Cmd {
	if v.client == nil || v.loaded || v.loading {
		return nil
	}
	return v.loadCalendar()
}

// SetSize sets the view dimensions
func (v CalendarView) SetSize(width, height int) CalendarView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is in input mode
func (v CalendarView) IsInputMode() bool {
	return false
}

func (v CalendarView) loadCalendar() tea.Cmd {
	client := v.client
	return func() tea.Msg {
		ctx := context.Background()
		events, err := client.FetchEvents(ctx)
		if err != nil {
			return calendarLoadedMsg{err: err}
		}
		reminders, err := client.FetchReminders(ctx)
		if err != nil {
			return calendarLoadedMsg{events: events, err: err}
		}
		return calendarLoadedMsg{events: events, reminders: reminders}
	}
}

type calendarLoadedMsg struct {
	events    []model.CalendarEvent
	reminders []model.Reminder
	err       error
}

type reminderImportedMsg struct {
	title string
	err   error
}

// Update handles messages
func (v CalendarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarLoadedMsg:
		v.loading = false
		v.loaded = true
		v.events = msg.events
		v.reminders = msg.reminders
		if msg.err != nil {
			v.errorMsg = msg.err.Error()
		}
		return v, nil

	case reminderImportedMsg:
		if msg.err != nil {
			v.errorMsg = msg.err.Error()
			return v, nil
		}
		v.statusMsg = fmt.Sprintf("Imported %q as a task", msg.title)
		return v, nil

	case tea.KeyMsg:
		v.statusMsg = ""
		v.errorMsg = ""

		switch msg.String() {
		case "tab":
			v.showTodos = !v.showTodos
			v.cursor = 0
		case "j", "down":
			if v.cursor < v.listLen()-1 {
				v.cursor++
			}
		case "k", "up":
			if v.cursor > 0 {
				v.cursor--
			}
		case "r":
			if v.client != nil {
				v.loading = true
				return v, v.loadCalendar()
			}
		case "i":
			if v.showTodos && v.cursor < len(v.reminders) {
				return v, v.importReminder(v.reminders[v.cursor])
			}
		}
	}

	return v, nil
}

func (v CalendarView) listLen() int {
	if v.showTodos {
		return len(v.reminders)
	}
	return len(v.events)
}

func (v CalendarView) importReminder(r model.Reminder) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		settings, err := v.store.GetOrCreateSettings(ctx, v.userID)
		if err != nil {
			return reminderImportedMsg{err: err}
		}
		order, err := v.store.NextOrder(ctx, v.userID)
		if err != nil {
			return reminderImportedMsg{err: err}
		}
		_, err = v.store.CreateTask(ctx, v.userID, model.Task{
			Title:           r.Title,
			Description:     r.Notes,
			PlannedDuration: settings.DefaultTime,
			Order:           order,
		})
		return reminderImportedMsg{title: r.Title, err: err}
	}
}

// View renders the calendar view
func (v CalendarView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles
	var sections []string

	if v.client == nil {
		sections = append(sections, styles.Title.Render("Calendar"))
		sections = append(sections, styles.Subtitle.Render(
			"No calendar account configured. Set RAYCLOCK_CALDAV_USERNAME and RAYCLOCK_CALDAV_PASSWORD."))
		return strings.Join(sections, "\n")
	}

	title := "Events"
	if v.showTodos {
		title = "Reminders"
	}
	sections = append(sections, styles.Title.Render(title))

	if v.loading {
		sections = append(sections, styles.Subtitle.Render("Fetching..."))
	} else if v.showTodos {
		sections = append(sections, v.renderReminders())
	} else {
		sections = append(sections, v.renderEvents())
	}

	if v.errorMsg != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(t.Error).Render(v.errorMsg))
	} else if v.statusMsg != "" {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(t.Success).Render(v.statusMsg))
	}

	return strings.Join(sections, "\n")
}

func (v CalendarView) renderEvents() string {
	styles := theme.Current.Styles

	if len(v.events) == 0 {
		return styles.Subtitle.Render("No events in the next 30 days.")
	}

	var lines []string
	maxShow := 15
	for i, ev := range v.events {
		if i >= maxShow {
			lines = append(lines, styles.Label.Render(fmt.Sprintf("  ... +%d more", len(v.events)-maxShow)))
			break
		}

		when := ev.StartDate.Format("Jan 02 15:04")
		line := fmt.Sprintf("%s  %s", when, ev.Title)
		if ev.Location != "" {
			line += " @ " + ev.Location
		}
		if ev.CalendarName != "" {
			line += styles.Label.Render("  [" + ev.CalendarName + "]")
		}

		if i == v.cursor {
			lines = append(lines, styles.TaskCurrent.Render("> "+line))
		} else {
			lines = append(lines, styles.TaskNormal.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

func (v CalendarView) renderReminders() string {
	styles := theme.Current.Styles

	if len(v.reminders) == 0 {
		return styles.Subtitle.Render("No reminders.")
	}

	var lines []string
	maxShow := 15
	for i, r := range v.reminders {
		if i >= maxShow {
			lines = append(lines, styles.Label.Render(fmt.Sprintf("  ... +%d more", len(v.reminders)-maxShow)))
			break
		}

		check := "[ ]"
		if r.Completed {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s", check, r.Title)
		if r.DueDate != nil {
			line += styles.Label.Render("  due " + r.DueDate.Format("Jan 02"))
		}

		switch {
		case r.Completed:
			lines = append(lines, styles.TaskDone.Render("  "+line))
		case i == v.cursor:
			lines = append(lines, styles.TaskCurrent.Render("> "+line))
		default:
			lines = append(lines, styles.TaskNormal.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}
