package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/notify"
	"github.com/rayclock/rayclock/internal/session"
	"github.com/rayclock/rayclock/internal/smarttime"
	"github.com/rayclock/rayclock/internal/store"
	"github.com/rayclock/rayclock/internal/tasklist"
	"github.com/rayclock/rayclock/internal/timer"
	"github.com/rayclock/rayclock/internal/ui/theme"
)

// TimerView is the countdown view: the task list with a per-task timer
// that counts down the planned time and advances on completion.
type TimerView struct {
	store    *store.Store
	notifier *notify.Notifier
	userID   string
	settings *model.Settings
	width    int
	height   int

	engine  *timer.Engine
	list    *tasklist.Controller
	watcher *session.Watcher

	// Add-task input
	input  textinput.Model
	adding bool

	statusMsg string
	errorMsg  string
}

// NewTimerView creates a new timer view
func NewTimerView(st *store.Store, notifier *notify.Notifier, userID string, settings *model.Settings) TimerView {
	engine := timer.New()
	list := tasklist.New()

	input := textinput.New()
	input.Placeholder = "Task title (trailing number sets minutes)"
	input.CharLimit = 200

	return TimerView{
		store:    st,
		notifier: notifier,
		userID:   userID,
		settings: settings,
		engine:   engine,
		list:     list,
		watcher:  session.NewWatcher(engine, list, st, notifier),
		input:    input,
	}
}

// Init initializes the timer view
func (v TimerView) Init() tea.Cmd {
	return v.loadTasks()
}

// SetSize sets the view dimensions
func (v TimerView) SetSize(width, height int) TimerView {
	v.width = width
	v.height = height
	return v
}

// SetSettings refreshes the cached settings after a change
func (v TimerView) SetSettings(settings *model.Settings) TimerView {
	v.settings = settings
	return v
}

// IsInputMode returns whether the view is in input mode
func (v TimerView) IsInputMode() bool {
	return v.adding
}

func (v TimerView) loadTasks() tea.Cmd {
	return func() tea.Msg {
		tasks, err := v.store.ListTasks(context.Background(), v.userID)
		return timerTasksLoadedMsg{tasks: tasks, err: err}
	}
}

type timerTasksLoadedMsg struct {
	tasks []model.Task
	err   error
}

type timerTickMsg struct{ generation int }

type timerTaskSavedMsg struct {
	task *model.Task
	err  error
}

// tickCmd sends a tick for one timer generation. Stale generations are
// dropped by the engine, so a paused and restarted timer never counts
// double.
func tickCmd(generation int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{generation: generation}
	})
}

// Update handles messages
func (v TimerView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTasksLoadedMsg:
		if msg.err != nil {
			v.errorMsg = msg.err.Error()
			return v, nil
		}
		// A reload must not retarget a running timer: keep the cursor on
		// the same task by identity, and reset the engine only when that
		// task is gone and the cursor falls back to the first incomplete.
		prevID := ""
		if cur, ok := v.list.Current(); ok {
			prevID = cur.ID
		}
		v.list.SetAll(msg.tasks)
		if prevID != "" && !v.list.SelectByID(prevID) {
			v.engine.Reset()
		}
		return v, nil

	case reportHistoryClearedMsg:
		// Clearing history from the report view invalidates this list too
		if msg.err != nil {
			return v, nil
		}
		return v, v.loadTasks()

	case timerTickMsg:
		if !v.engine.Tick(msg.generation) {
			// Stale source, let it die
			return v, nil
		}
		if completion, fired := v.watcher.Check(context.Background()); fired {
			return v.applyCompletion(completion), nil
		}
		return v, tickCmd(msg.generation)

	case timerTaskSavedMsg:
		if msg.err != nil {
			v.errorMsg = msg.err.Error()
			return v, nil
		}
		v.list.Append(*msg.task)
		v.statusMsg = fmt.Sprintf("Added %q", msg.task.Title)
		return v, nil

	case tea.KeyMsg:
		if v.adding {
			return v.updateInput(msg)
		}
		return v.updateKeys(msg)
	}

	return v, nil
}

func (v TimerView) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := strings.TrimSpace(v.input.Value())
		v.adding = false
		v.input.Reset()
		v.input.Blur()
		if title == "" {
			return v, nil
		}
		return v, v.createTask(title)

	case "esc":
		v.adding = false
		v.input.Reset()
		v.input.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v TimerView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.statusMsg = ""
	v.errorMsg = ""

	switch msg.String() {
	case "j", "down":
		if !v.engine.Running() && v.list.Cursor() < v.list.Len()-1 {
			v.list.SetCursor(v.list.Cursor() + 1)
			v.engine.Reset()
		}
		return v, nil

	case "k", "up":
		if !v.engine.Running() && v.list.Cursor() > 0 {
			v.list.SetCursor(v.list.Cursor() - 1)
			v.engine.Reset()
		}
		return v, nil

	case "a":
		v.adding = true
		v.input.Focus()
		return v, textinput.Blink

	case "s", " ":
		if v.engine.Running() {
			v.engine.Pause()
			v.statusMsg = "Paused"
			return v, nil
		}
		if _, ok := v.list.Current(); !ok {
			v.statusMsg = "Nothing to time"
			return v, nil
		}
		generation, started := v.engine.Start()
		if !started {
			return v, nil
		}
		v.statusMsg = "Running"
		return v, tickCmd(generation)

	case "+", "=":
		v.engine.Adjust(300)
		// An adjustment can jump past the threshold
		if completion, fired := v.watcher.Check(context.Background()); fired {
			return v.applyCompletion(completion), nil
		}
		return v, nil

	case "-":
		v.engine.Adjust(-300)
		return v, nil

	case "c":
		if completion, ok := v.watcher.Complete(context.Background()); ok {
			return v.applyCompletion(completion), nil
		}
		return v, nil

	case "n":
		if v.list.Skip() {
			v.engine.Reset()
			v.statusMsg = "Skipped"
		}
		return v, nil

	case "d":
		return v.deleteSelected()

	case "x":
		return v.clearCompleted()
	}

	return v, nil
}

// applyCompletion folds the completion outcome into the view state
func (v TimerView) applyCompletion(c *session.Completion) TimerView {
	switch {
	case c.RolledBack:
		v.errorMsg = fmt.Sprintf("Save failed, completion undone: %v", c.SaveErr)
	case c.SaveErr != nil:
		v.statusMsg = fmt.Sprintf("%q done (%d min), save pending: %v", c.Task.Title, c.ActualDuration, c.SaveErr)
	case c.Finished:
		v.statusMsg = "All tasks complete!"
		if v.notifier != nil {
			v.notifier.SendAllTasksComplete()
		}
	default:
		v.statusMsg = fmt.Sprintf("%q done in %d min", c.Task.Title, c.ActualDuration)
	}
	return v
}

func (v TimerView) createTask(raw string) tea.Cmd {
	title := raw
	planned := v.settings.DefaultTime
	if v.settings.SmartTimeDetection {
		if trimmed, minutes, ok := smarttime.Detect(raw); ok {
			title = trimmed
			planned = minutes
		}
	}

	return func() tea.Msg {
		ctx := context.Background()
		order, err := v.store.NextOrder(ctx, v.userID)
		if err != nil {
			return timerTaskSavedMsg{err: err}
		}
		task, err := v.store.CreateTask(ctx, v.userID, model.Task{
			Title:           title,
			PlannedDuration: planned,
			Order:           order,
		})
		return timerTaskSavedMsg{task: task, err: err}
	}
}

func (v TimerView) deleteSelected() (tea.Model, tea.Cmd) {
	cur, ok := v.list.Current()
	if !ok {
		return v, nil
	}
	if err := v.store.DeleteTask(context.Background(), cur.ID); err != nil {
		v.errorMsg = err.Error()
		return v, nil
	}
	v.list.Remove(cur.ID)
	v.engine.Reset()
	v.statusMsg = fmt.Sprintf("Deleted %q", cur.Title)
	return v, nil
}

func (v TimerView) clearCompleted() (tea.Model, tea.Cmd) {
	n, err := v.store.DeleteCompletedTasks(context.Background(), v.userID)
	if err != nil {
		v.errorMsg = err.Error()
		return v, nil
	}
	v.statusMsg = fmt.Sprintf("Cleared %d completed", n)
	return v, v.loadTasks()
}

// View renders the timer view
func (v TimerView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	var sections []string

	sections = append(sections, v.renderCountdown())

	if v.adding {
		styles := theme.Current.Styles
		sections = append(sections, styles.InputFocused.Render(v.input.View()))
	}

	sections = append(sections, v.renderTaskList())

	if v.errorMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Error).MarginTop(1).Render(v.errorMsg))
	} else if v.statusMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Success).MarginTop(1).Render(v.statusMsg))
	}

	return strings.Join(sections, "\n")
}

func (v TimerView) renderCountdown() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	cur, ok := v.list.Current()
	if !ok {
		return styles.Subtitle.Render("No task selected. Press a to add one.")
	}

	total := cur.PlannedSeconds()
	remaining := total - v.engine.Elapsed()
	if remaining < 0 {
		remaining = 0
	}

	var color lipgloss.Color
	switch {
	case v.engine.Running():
		color = t.Accent
	case v.engine.Elapsed() > 0:
		color = t.Warning
	default:
		color = t.Foreground
	}

	timeStr := fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
	timeBox := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(timeStr)

	var stateLabel string
	switch {
	case v.engine.Running():
		stateLabel = "RUNNING"
	case v.engine.Elapsed() > 0:
		stateLabel = "PAUSED"
	default:
		stateLabel = "READY"
	}

	title := fmt.Sprintf("%s %s", cur.DisplayEmoji(), cur.Title)

	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(stateLabel),
		lipgloss.NewStyle().Foreground(t.Foreground).Render(title),
		timeBox,
		v.renderProgress(total, color),
	)
}

// renderProgress draws either a linear bar or, when the pie timer is
// enabled, a clock-face fraction.
func (v TimerView) renderProgress(total int, color lipgloss.Color) string {
	elapsed := v.engine.Elapsed()
	if total <= 0 {
		total = 1
	}
	frac := float64(elapsed) / float64(total)
	if frac > 1 {
		frac = 1
	}

	style := lipgloss.NewStyle().Foreground(color)

	if v.settings.PieTimerEnabled {
		faces := []string{"🕛", "🕐", "🕑", "🕒", "🕓", "🕔", "🕕", "🕖", "🕗", "🕘", "🕙", "🕚"}
		idx := int(frac * float64(len(faces)-1))
		return style.Render(fmt.Sprintf("%s %d%%", faces[idx], int(frac*100)))
	}

	barWidth := 30
	filled := int(frac * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return style.Render(bar)
}

func (v TimerView) renderTaskList() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	tasks := v.list.Tasks()
	if len(tasks) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Subtle).
		MarginTop(1).
		Render("Up next:"))

	maxShow := 10
	for i, task := range tasks {
		if i >= maxShow {
			lines = append(lines, styles.Label.Render(fmt.Sprintf("  ... +%d more", len(tasks)-maxShow)))
			break
		}

		label := fmt.Sprintf("%s %s (%dm)", task.DisplayEmoji(), task.Title, task.PlannedDuration)

		switch {
		case task.Completed:
			lines = append(lines, styles.TaskDone.Render("  "+label))
		case i == v.list.Cursor():
			lines = append(lines, styles.TaskCurrent.Render("> "+label))
		default:
			lines = append(lines, styles.TaskNormal.Render("  "+label))
		}
	}

	return strings.Join(lines, "\n")
}
