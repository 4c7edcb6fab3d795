package report

import (
	"testing"
	"time"

	"github.com/rayclock/rayclock/internal/model"
)

func task(planned, actual int, completed bool) model.Task {
	return model.Task{
		Title:           "t",
		PlannedDuration: planned,
		ActualDuration:  actual,
		Completed:       completed,
	}
}

func TestPartitionPreservesTotals(t *testing.T) {
	tasks := []model.Task{
		task(25, 27, true),
		task(10, 0, false),
		task(15, 12, true),
		task(30, 0, false),
		task(5, 0, false),
	}

	completed, remaining := Partition(tasks)
	if len(completed) != 2 || len(remaining) != 3 {
		t.Fatalf("partition sizes = %d/%d, want 2/3", len(completed), len(remaining))
	}

	if PlannedTotal(completed)+PlannedTotal(remaining) != PlannedTotal(tasks) {
		t.Error("planned totals do not partition")
	}
	if SpentTotal(completed)+SpentTotal(remaining) != SpentTotal(tasks) {
		t.Error("spent totals do not partition")
	}
}

func TestSummarizeTotals(t *testing.T) {
	s := Summarize([]model.Task{
		task(25, 27, true),
		task(15, 12, true),
		task(10, 0, false),
		task(30, 0, false),
	})

	if s.PlannedCompleted != 40 || s.SpentCompleted != 39 {
		t.Errorf("completed = %d/%d, want 40/39", s.PlannedCompleted, s.SpentCompleted)
	}
	if s.PlannedRemaining != 40 || s.SpentRemaining != 0 {
		t.Errorf("remaining = %d/%d, want 40/0", s.PlannedRemaining, s.SpentRemaining)
	}
	if s.PlannedTotal != 80 || s.SpentTotal != 39 {
		t.Errorf("totals = %d/%d, want 80/39", s.PlannedTotal, s.SpentTotal)
	}
	if s.CompletionRate != 50 {
		t.Errorf("completion rate = %d, want 50", s.CompletionRate)
	}
}

func TestCompletionRateEdges(t *testing.T) {
	// All incomplete, nothing logged
	s := Summarize([]model.Task{task(10, 0, false), task(20, 0, false)})
	if s.CompletionRate != 0 {
		t.Errorf("all-incomplete rate = %d, want 0", s.CompletionRate)
	}

	// All completed
	s = Summarize([]model.Task{task(10, 11, true), task(20, 18, true)})
	if s.CompletionRate != 100 {
		t.Errorf("all-completed rate = %d, want 100", s.CompletionRate)
	}

	// Empty list
	s = Summarize(nil)
	if s.CompletionRate != 0 {
		t.Errorf("empty-list rate = %d, want 0", s.CompletionRate)
	}

	// No planned time but logged completed time
	s = Summarize([]model.Task{{Title: "ad hoc", ActualDuration: 7, Completed: true}})
	if s.CompletionRate != 100 {
		t.Errorf("logged-only rate = %d, want 100", s.CompletionRate)
	}
}

func TestPaceClassification(t *testing.T) {
	cases := []struct {
		planned, spent int
		want           string
	}{
		{30, 40, PaceOverPlan}, // +10
		{30, 36, PaceOverPlan}, // +6, just outside the band
		{30, 35, PaceOnTrack},  // +5, on the band edge
		{30, 30, PaceOnTrack},
		{30, 25, PaceOnTrack},  // -5, on the band edge
		{30, 24, PaceAhead},    // -6
		{30, 10, PaceAhead},
	}
	for _, tc := range cases {
		s := Summarize([]model.Task{task(tc.planned, tc.spent, true)})
		if s.PaceLabel != tc.want {
			t.Errorf("planned %d spent %d: label = %q, want %q", tc.planned, tc.spent, s.PaceLabel, tc.want)
		}
		if s.Pace != tc.spent-tc.planned {
			t.Errorf("planned %d spent %d: pace = %d, want %d", tc.planned, tc.spent, s.Pace, tc.spent-tc.planned)
		}
	}
}

func TestAverageBlock(t *testing.T) {
	s := Summarize([]model.Task{
		task(10, 0, false),
		task(25, 0, false),
		task(30, 10, true), // Completed tasks do not count
	})
	// 35 remaining planned over 2 tasks, rounded
	if s.AverageBlock != 18 {
		t.Errorf("average block = %d, want 18", s.AverageBlock)
	}

	s = Summarize([]model.Task{task(10, 10, true)})
	if s.AverageBlock != 0 {
		t.Errorf("average block with no remaining = %d, want 0", s.AverageBlock)
	}
}

func TestScheduleStartClampsIntoWindow(t *testing.T) {
	w := Window{StartHour: 8, EndHour: 22}
	loc := time.UTC

	// Inside the window: unchanged
	now := time.Date(2026, 8, 31, 14, 30, 0, 0, loc)
	if got := ScheduleStart(now, w); !got.Equal(now) {
		t.Errorf("in-window start = %v, want %v", got, now)
	}

	// Before opening: snap to today's opening
	early := time.Date(2026, 8, 31, 6, 15, 0, 0, loc)
	want := time.Date(2026, 8, 31, 8, 0, 0, 0, loc)
	if got := ScheduleStart(early, w); !got.Equal(want) {
		t.Errorf("early start = %v, want %v", got, want)
	}

	// At or after closing: snap to tomorrow's opening
	late := time.Date(2026, 8, 31, 23, 5, 0, 0, loc)
	want = time.Date(2026, 9, 1, 8, 0, 0, 0, loc)
	if got := ScheduleStart(late, w); !got.Equal(want) {
		t.Errorf("late start = %v, want %v", got, want)
	}
}

func TestProjectedFinish(t *testing.T) {
	w := Window{StartHour: 8, EndHour: 22}
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	remaining := []model.Task{task(25, 0, false), task(35, 0, false)}
	finish, ok := ProjectedFinish(now, w, remaining)
	if !ok {
		t.Fatal("expected a projected finish")
	}
	want := time.Date(2026, 8, 31, 11, 0, 0, 0, time.UTC)
	if !finish.Equal(want) {
		t.Errorf("finish = %v, want %v", finish, want)
	}

	// No remaining planned time: the "Complete" sentinel
	if _, ok := ProjectedFinish(now, w, nil); ok {
		t.Error("empty remaining set should report complete")
	}
}

func TestProjectedScheduleLaysOutBackToBack(t *testing.T) {
	w := Window{StartHour: 8, EndHour: 22}
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	blocks := ProjectedSchedule(now, w, []model.Task{
		task(30, 0, false),
		task(15, 0, false),
	})
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if !blocks[0].Start.Equal(now) {
		t.Errorf("first block starts %v, want %v", blocks[0].Start, now)
	}
	if !blocks[1].Start.Equal(blocks[0].End) {
		t.Error("second block does not start when the first ends")
	}
	wantEnd := now.Add(45 * time.Minute)
	if !blocks[1].End.Equal(wantEnd) {
		t.Errorf("schedule ends %v, want %v", blocks[1].End, wantEnd)
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := map[int]string{
		0:   "0m",
		45:  "45m",
		60:  "1h 0m",
		65:  "1h 5m",
		150: "2h 30m",
	}
	for minutes, want := range cases {
		if got := FormatMinutes(minutes); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", minutes, got, want)
		}
	}
}
