package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/report"
	"github.com/rayclock/rayclock/internal/store"
	"github.com/rayclock/rayclock/internal/ui/theme"
)

// ReportView summarizes the day: completion rate, pace against the plan,
// and the projected finish time for the remaining work.
type ReportView struct {
	store  *store.Store
	userID string
	width  int
	height int

	tasks  []model.Task
	window report.Window

	errorMsg string
}

// NewReportView creates a new report view
func NewReportView(st *store.Store, userID string) ReportView {
	return ReportView{
		store:  st,
		userID: userID,
		window: report.DefaultWindow,
	}
}

// Init initializes the report view
func (v ReportView) Init() tea.Cmd {
	return v.loadTasks()
}

// SetSize sets the view dimensions
func (v ReportView) SetSize(width, height int) ReportView {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is in input mode
func (v ReportView) IsInputMode() bool {
	return false
}

func (v ReportView) loadTasks() tea.Cmd {
	return func() tea.Msg {
		tasks, err := v.store.ListTasks(context.Background(), v.userID)
		return reportTasksLoadedMsg{tasks: tasks, err: err}
	}
}

type reportTasksLoadedMsg struct {
	tasks []model.Task
	err   error
}

type reportHistoryClearedMsg struct {
	err error
}

func (v ReportView) clearHistory() tea.Cmd {
	return func() tea.Msg {
		_, err := v.store.DeleteCompletedTasks(context.Background(), v.userID)
		return reportHistoryClearedMsg{err: err}
	}
}

// Update handles messages
func (v ReportView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportTasksLoadedMsg:
		if msg.err != nil {
			v.errorMsg = msg.err.Error()
			return v, nil
		}
		v.tasks = msg.tasks
		return v, nil

	case reportHistoryClearedMsg:
		if msg.err != nil {
			v.errorMsg = msg.err.Error()
			return v, nil
		}
		return v, v.loadTasks()

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return v, v.loadTasks()
		case "x":
			return v, v.clearHistory()
		}
	}

	return v, nil
}

// View renders the report view
func (v ReportView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	styles := theme.Current.Styles

	if v.errorMsg != "" {
		return lipgloss.NewStyle().Foreground(t.Error).Render(v.errorMsg)
	}

	summary := report.Summarize(v.tasks)
	_, remaining := report.Partition(v.tasks)
	now := time.Now()

	var sections []string
	sections = append(sections, styles.Title.Render("Today"))

	row := func(label, value string) string {
		return styles.Label.Width(18).Render(label) + lipgloss.NewStyle().Foreground(t.Foreground).Render(value)
	}

	sections = append(sections,
		row("Completed", fmt.Sprintf("%d of %d tasks", summary.CompletedCount, summary.CompletedCount+summary.RemainingCount)),
		row("Completion rate", fmt.Sprintf("%d%%", summary.CompletionRate)),
		row("Time spent", report.FormatMinutes(summary.SpentTotal)),
		row("Planned total", report.FormatMinutes(summary.PlannedTotal)),
	)

	// Pace line colored by direction
	paceColor := t.Success
	if summary.PaceLabel == report.PaceOverPlan {
		paceColor = t.Warning
	}
	pace := summary.Pace
	if pace < 0 {
		pace = -pace
	}
	paceDetail := summary.PaceLabel
	if summary.PaceLabel != report.PaceOnTrack {
		paceDetail = fmt.Sprintf("%s by %s", summary.PaceLabel, report.FormatMinutes(pace))
	}
	sections = append(sections,
		styles.Label.Width(18).Render("Pace")+lipgloss.NewStyle().Foreground(paceColor).Render(paceDetail))

	sections = append(sections, "")
	sections = append(sections, styles.Title.Render("Remaining"))

	if len(remaining) == 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Success).Render("Complete"))
	} else {
		sections = append(sections,
			row("Tasks left", fmt.Sprintf("%d", summary.RemainingCount)),
			row("Time left", report.FormatMinutes(summary.PlannedRemaining)),
			row("Average block", report.FormatMinutes(summary.AverageBlock)),
		)
		if finish, ok := report.ProjectedFinish(now, v.window, remaining); ok {
			sections = append(sections, row("Projected finish", finish.Format("15:04")))
		}
		sections = append(sections, "")
		sections = append(sections, v.renderSchedule(now, remaining))
	}

	return strings.Join(sections, "\n")
}

// renderSchedule lays the remaining tasks back to back from now,
// clamped to the planning window.
func (v ReportView) renderSchedule(now time.Time, remaining []model.Task) string {
	styles := theme.Current.Styles

	blocks := report.ProjectedSchedule(now, v.window, remaining)
	if len(blocks) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, styles.Subtitle.Render("Projected schedule:"))

	maxShow := 8
	for i, b := range blocks {
		if i >= maxShow {
			lines = append(lines, styles.Label.Render(fmt.Sprintf("  ... +%d more", len(blocks)-maxShow)))
			break
		}
		line := fmt.Sprintf("  %s-%s  %s %s",
			b.Start.Format("15:04"), b.End.Format("15:04"),
			b.Task.DisplayEmoji(), b.Task.Title)
		lines = append(lines, styles.TaskNormal.Render(line))
	}

	return strings.Join(lines, "\n")
}
