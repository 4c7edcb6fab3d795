// Package report computes read-only summary statistics from the task list
// and the completed-task history. Everything here is a pure function of its
// inputs, recomputed on every read.
package report

import (
	"fmt"
	"time"

	"github.com/rayclock/rayclock/internal/model"
)

// Pace classification dead band in minutes
const paceBand = 5

// Pace labels
const (
	PaceOverPlan = "Over plan"
	PaceAhead    = "Ahead"
	PaceOnTrack  = "On track"
)

// Summary is the aggregate view over a task list
type Summary struct {
	CompletedCount int
	RemainingCount int

	PlannedCompleted int // Minutes
	SpentCompleted   int
	PlannedRemaining int
	SpentRemaining   int
	PlannedTotal     int
	SpentTotal       int

	CompletionRate int // Percent of planned time completed
	Pace           int // Spent minus planned on completed work; positive is over plan
	PaceLabel      string
	AverageBlock   int // Minutes per remaining task with a planned duration
}

// PlannedTotal sums the planned duration over the tasks
func PlannedTotal(tasks []model.Task) int {
	total := 0
	for _, t := range tasks {
		total += t.PlannedDuration
	}
	return total
}

// SpentTotal sums the actual duration over the tasks
func SpentTotal(tasks []model.Task) int {
	total := 0
	for _, t := range tasks {
		total += t.ActualDuration
	}
	return total
}

// Partition splits the tasks by their completed flag, preserving order
func Partition(tasks []model.Task) (completed, remaining []model.Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	return completed, remaining
}

// Summarize computes the full aggregate view for the tasks
func Summarize(tasks []model.Task) Summary {
	completed, remaining := Partition(tasks)

	s := Summary{
		CompletedCount:   len(completed),
		RemainingCount:   len(remaining),
		PlannedCompleted: PlannedTotal(completed),
		SpentCompleted:   SpentTotal(completed),
		PlannedRemaining: PlannedTotal(remaining),
		SpentRemaining:   SpentTotal(remaining),
	}
	s.PlannedTotal = s.PlannedCompleted + s.PlannedRemaining
	s.SpentTotal = s.SpentCompleted + s.SpentRemaining

	switch {
	case s.PlannedTotal > 0:
		s.CompletionRate = roundedPercent(s.PlannedCompleted, s.PlannedTotal)
	case s.SpentCompleted > 0:
		s.CompletionRate = 100
	default:
		s.CompletionRate = 0
	}

	s.Pace = s.SpentCompleted - s.PlannedCompleted
	s.PaceLabel = paceLabel(s.Pace)

	withPlanned := 0
	for _, t := range remaining {
		if t.PlannedDuration > 0 {
			withPlanned++
		}
	}
	if withPlanned > 0 {
		s.AverageBlock = roundedDiv(s.PlannedRemaining, withPlanned)
	}

	return s
}

func paceLabel(pace int) string {
	switch {
	case pace > paceBand:
		return PaceOverPlan
	case pace < -paceBand:
		return PaceAhead
	default:
		return PaceOnTrack
	}
}

// Window is the daily planning window used for the projected schedule
type Window struct {
	StartHour int
	EndHour   int
}

// DefaultWindow covers a typical planning day
var DefaultWindow = Window{StartHour: 8, EndHour: 22}

// ScheduleStart clamps the given instant into the planning window: before
// the window opens it snaps forward to today's opening, at or after the
// window closes it snaps to the next day's opening.
func ScheduleStart(now time.Time, w Window) time.Time {
	open := time.Date(now.Year(), now.Month(), now.Day(), w.StartHour, 0, 0, 0, now.Location())
	if now.Before(open) {
		return open
	}
	if now.Hour() >= w.EndHour {
		return open.AddDate(0, 0, 1)
	}
	return now
}

// Block is one task laid out on the projected schedule
type Block struct {
	Task  model.Task
	Start time.Time
	End   time.Time
}

// ProjectedSchedule lays out the remaining tasks back-to-back in list order
// from the schedule start, each occupying its planned minutes
func ProjectedSchedule(now time.Time, w Window, remaining []model.Task) []Block {
	at := ScheduleStart(now, w)
	blocks := make([]Block, 0, len(remaining))
	for _, t := range remaining {
		end := at.Add(time.Duration(t.PlannedDuration) * time.Minute)
		blocks = append(blocks, Block{Task: t, Start: at, End: end})
		at = end
	}
	return blocks
}

// ProjectedFinish returns the instant the last remaining task would end.
// The second return is false when there is no remaining planned time, the
// "Complete" sentinel state.
func ProjectedFinish(now time.Time, w Window, remaining []model.Task) (time.Time, bool) {
	total := PlannedTotal(remaining)
	if total == 0 {
		return time.Time{}, false
	}
	return ScheduleStart(now, w).Add(time.Duration(total) * time.Minute), true
}

// FormatMinutes renders minutes as "1h 5m" or "45m"
func FormatMinutes(minutes int) string {
	hours := minutes / 60
	mins := minutes - hours*60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

func roundedPercent(part, whole int) int {
	return roundedDiv(part*100, whole)
}

func roundedDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}
