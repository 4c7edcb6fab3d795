// Package tasklist owns the ordered task collection for the active session
// and the cursor identifying the currently timed task. All mutation goes
// through the controller; other components read through its queries.
package tasklist

import (
	"github.com/rayclock/rayclock/internal/model"
)

// Controller holds a user's ordered tasks and the current-task cursor.
// The cursor stays within [0, len-1] while the list is non-empty; an empty
// list is a terminal state with no current task, not an error.
type Controller struct {
	tasks  []model.Task
	cursor int
}

// New returns an empty controller
func New() *Controller {
	return &Controller{}
}

// SetAll replaces the full collection, used after a fetch. The cursor is
// re-resolved to the first incomplete task by list position; if every task
// is complete it clamps to the end.
func (c *Controller) SetAll(tasks []model.Task) {
	c.tasks = make([]model.Task, len(tasks))
	copy(c.tasks, tasks)
	c.cursor = c.firstIncomplete()
}

// Append adds a task at the end of the list
func (c *Controller) Append(t model.Task) {
	c.tasks = append(c.tasks, t)
}

// Update merges the patch into the task matching id. No-op if not found.
func (c *Controller) Update(id string, patch model.TaskPatch) bool {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			patch.Apply(&c.tasks[i])
			return true
		}
	}
	return false
}

// Remove deletes the task matching id. Removing a task strictly before the
// cursor decrements the cursor so it keeps pointing at the same task;
// removing the current task leaves the index in place so the next task
// slides in. The cursor is clamped to the shrunken list either way.
func (c *Controller) Remove(id string) bool {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			if i < c.cursor {
				c.cursor--
			}
			c.clampCursor()
			return true
		}
	}
	return false
}

// SelectByID moves the cursor to the task matching id. Returns false,
// leaving the cursor where it is, when no task matches.
func (c *Controller) SelectByID(id string) bool {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			c.cursor = i
			return true
		}
	}
	return false
}

// SetCursor sets the current-task index, clamped into the valid range
func (c *Controller) SetCursor(index int) {
	c.cursor = index
	c.clampCursor()
}

// Skip advances the cursor by one, bounded at the last task. Skipping from
// the last task is a no-op. Returns whether the cursor moved.
func (c *Controller) Skip() bool {
	if c.cursor >= len(c.tasks)-1 {
		return false
	}
	c.cursor++
	return true
}

// Cursor returns the current-task index
func (c *Controller) Cursor() int {
	return c.cursor
}

// Len returns the number of tasks
func (c *Controller) Len() int {
	return len(c.tasks)
}

// Current returns the task at the cursor, or false if the list is empty or
// the cursor is out of bounds
func (c *Controller) Current() (model.Task, bool) {
	if c.cursor < 0 || c.cursor >= len(c.tasks) {
		return model.Task{}, false
	}
	return c.tasks[c.cursor], true
}

// Upcoming returns the ordered slice strictly after the cursor
func (c *Controller) Upcoming() []model.Task {
	if c.cursor+1 >= len(c.tasks) {
		return nil
	}
	out := make([]model.Task, len(c.tasks)-c.cursor-1)
	copy(out, c.tasks[c.cursor+1:])
	return out
}

// Tasks returns a copy of the full collection in list order
func (c *Controller) Tasks() []model.Task {
	out := make([]model.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Remaining returns the incomplete tasks in list order
func (c *Controller) Remaining() []model.Task {
	var out []model.Task
	for _, t := range c.tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// NextOrder returns a position value one past the highest in the list
func (c *Controller) NextOrder() int {
	next := 0
	for _, t := range c.tasks {
		if t.Order >= next {
			next = t.Order + 1
		}
	}
	return next
}

func (c *Controller) firstIncomplete() int {
	for i := range c.tasks {
		if !c.tasks[i].Completed {
			return i
		}
	}
	if len(c.tasks) == 0 {
		return 0
	}
	return len(c.tasks) - 1
}

func (c *Controller) clampCursor() {
	if c.cursor < 0 {
		c.cursor = 0
	}
	if len(c.tasks) > 0 && c.cursor > len(c.tasks)-1 {
		c.cursor = len(c.tasks) - 1
	}
	if len(c.tasks) == 0 {
		c.cursor = 0
	}
}
