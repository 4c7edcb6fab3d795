package tasklist

import (
	"testing"

	"github.com/rayclock/rayclock/internal/model"
)

func makeTasks(titles ...string) []model.Task {
	tasks := make([]model.Task, len(titles))
	for i, title := range titles {
		tasks[i] = model.Task{
			ID:              "task-" + title,
			Title:           title,
			PlannedDuration: 10,
			Order:           i,
		}
	}
	return tasks
}

func TestSetAllResolvesCursorToFirstIncomplete(t *testing.T) {
	c := New()
	tasks := makeTasks("a", "b", "c")
	tasks[0].Completed = true

	c.SetAll(tasks)
	if c.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1 (first incomplete)", c.Cursor())
	}

	cur, ok := c.Current()
	if !ok || cur.Title != "b" {
		t.Errorf("Current = %+v, %v; want task b", cur, ok)
	}
}

func TestSetAllAllCompleteClampsToEnd(t *testing.T) {
	c := New()
	tasks := makeTasks("a", "b")
	tasks[0].Completed = true
	tasks[1].Completed = true

	c.SetAll(tasks)
	if c.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", c.Cursor())
	}
}

func TestSelectByIDMovesCursor(t *testing.T) {
	c := New()
	c.SetAll(makeTasks("a", "b", "c"))

	if !c.SelectByID("task-c") {
		t.Fatal("SelectByID did not find task-c")
	}
	cur, ok := c.Current()
	if !ok || cur.Title != "c" {
		t.Errorf("Current = %+v, %v; want task c", cur, ok)
	}

	if c.SelectByID("missing") {
		t.Error("SelectByID on unknown id should report false")
	}
	if c.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2 (unchanged after a miss)", c.Cursor())
	}
}

func TestCurrentOnEmptyList(t *testing.T) {
	c := New()
	if _, ok := c.Current(); ok {
		t.Error("Current on empty list should report no task")
	}
	if got := c.Upcoming(); got != nil {
		t.Errorf("Upcoming on empty list = %v, want nil", got)
	}
}

func TestSkipBoundedAtLastTask(t *testing.T) {
	c := New()
	c.SetAll(makeTasks("a", "b", "c"))

	if !c.Skip() {
		t.Error("first Skip should move the cursor")
	}
	if !c.Skip() {
		t.Error("second Skip should move the cursor")
	}
	if c.Cursor() != 2 {
		t.Fatalf("cursor = %d, want 2", c.Cursor())
	}

	// Skipping from the last task is a no-op
	if c.Skip() {
		t.Error("Skip from the last task should not move")
	}
	if c.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2 after no-op skip", c.Cursor())
	}
}

func TestSetCursorClamps(t *testing.T) {
	c := New()
	c.SetAll(makeTasks("a", "b", "c"))

	c.SetCursor(99)
	if c.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", c.Cursor())
	}

	c.SetCursor(-4)
	if c.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", c.Cursor())
	}
}

func TestUpdateMergesFields(t *testing.T) {
	c := New()
	c.SetAll(makeTasks("a", "b"))

	done := true
	actual := 12
	if !c.Update("task-b", model.TaskPatch{Completed: &done, ActualDuration: &actual}) {
		t.Fatal("Update did not find task-b")
	}

	tasks := c.Tasks()
	if !tasks[1].Completed || tasks[1].ActualDuration != 12 {
		t.Errorf("task b = %+v, want completed with actual 12", tasks[1])
	}
	if tasks[1].Title != "b" || tasks[1].PlannedDuration != 10 {
		t.Errorf("untouched fields changed: %+v", tasks[1])
	}

	if c.Update("missing", model.TaskPatch{Completed: &done}) {
		t.Error("Update on unknown id should be a no-op")
	}
}

func TestRemoveBeforeCursorKeepsSameCurrentTask(t *testing.T) {
	c := New()
	c.SetAll(makeTasks("a", "b", "c"))
	c.SetCursor(2)

	if !c.Remove("task-a") {
		t.Fatal("Remove did not find task-a")
	}

	cur, ok := c.Current()
	if !ok || cur.Title != "c" {
		t.Errorf("Current = %+v, %v; want task c to stay current", cur, ok)
	}
	if c.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", c.Cursor())
	}
}

func TestRemoveCurrentTaskSlidesNextIn(t *testing.T) {
	c := New()
	c.SetAll(makeTasks("a", "b", "c"))
	c.SetCursor(1)

	c.Remove("task-b")
	cur, ok := c.Current()
	if !ok || cur.Title != "c" {
		t.Errorf("Current = %+v, %v; want task c", cur, ok)
	}
}

func TestRemoveLastTaskClampsCursor(t *testing.T) {
	c := New()
	c.SetAll(makeTasks("a", "b"))
	c.SetCursor(1)

	c.Remove("task-b")
	if c.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", c.Cursor())
	}

	c.Remove("task-a")
	if _, ok := c.Current(); ok {
		t.Error("Current should report no task once the list is empty")
	}
}

func TestUpcomingIsStrictlyAfterCursor(t *testing.T) {
	c := New()
	c.SetAll(makeTasks("a", "b", "c", "d"))
	c.SetCursor(1)

	up := c.Upcoming()
	if len(up) != 2 || up[0].Title != "c" || up[1].Title != "d" {
		t.Errorf("Upcoming = %+v, want [c d]", up)
	}
}

func TestNextOrderIsMonotonic(t *testing.T) {
	c := New()
	c.SetAll(makeTasks("a", "b", "c"))
	if got := c.NextOrder(); got != 3 {
		t.Errorf("NextOrder = %d, want 3", got)
	}

	c.Remove("task-b")
	if got := c.NextOrder(); got != 3 {
		t.Errorf("NextOrder = %d, want 3 after removal (orders are not reused)", got)
	}

	c2 := New()
	if got := c2.NextOrder(); got != 0 {
		t.Errorf("NextOrder on empty list = %d, want 0", got)
	}
}
