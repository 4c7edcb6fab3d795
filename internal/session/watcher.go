// Package session drives the completion transition: it watches the active
// task's elapsed time against its planned duration and, when the threshold
// is reached while running, marks the task complete, persists the change,
// and advances the list cursor.
package session

import (
	"context"

	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/tasklist"
	"github.com/rayclock/rayclock/internal/timer"
)

// TaskStore is the persistence collaborator for completion updates
type TaskStore interface {
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error)
}

// Notifier delivers best-effort completion feedback. Failures are ignored.
type Notifier interface {
	SendTaskComplete(title string, actualMinutes int) error
}

// Completion describes a finished completion transition
type Completion struct {
	Task           model.Task
	ActualDuration int  // Minutes, ceil of elapsed seconds
	Advanced       bool // Cursor moved to the next task
	Finished       bool // No next task exists
	RolledBack     bool // Save failed and the local state was reverted
	SaveErr        error
}

// Watcher checks the active task after every elapsed-time change. The check
// must not be skipped on batched updates: a manual adjustment can jump the
// elapsed time past the threshold in one step.
type Watcher struct {
	engine   *timer.Engine
	list     *tasklist.Controller
	store    TaskStore
	notifier Notifier

	// RollbackOnError reverts the local completion when the persistence
	// update fails. The default keeps the local state and surfaces the
	// error (optimistic update), matching the historical behavior.
	RollbackOnError bool
}

// NewWatcher wires a watcher to its collaborators. store and notifier may
// be nil for offline or silent operation.
func NewWatcher(engine *timer.Engine, list *tasklist.Controller, store TaskStore, notifier Notifier) *Watcher {
	return &Watcher{
		engine:   engine,
		list:     list,
		store:    store,
		notifier: notifier,
	}
}

// Check evaluates the completion condition for the current task. It fires
// only while the engine is running; elapsed time sitting at or over the
// threshold while paused does not complete the task until time progresses
// again. Returns the completion and true when the transition ran.
func (w *Watcher) Check(ctx context.Context) (*Completion, bool) {
	cur, ok := w.list.Current()
	if !ok || !w.engine.Running() {
		return nil, false
	}
	if w.engine.Elapsed() < cur.PlannedSeconds() {
		return nil, false
	}
	return w.complete(ctx, cur), true
}

// Complete forces the completion transition for the current task regardless
// of elapsed time, e.g. when the user marks it done by hand. Returns false
// if there is no current task.
func (w *Watcher) Complete(ctx context.Context) (*Completion, bool) {
	cur, ok := w.list.Current()
	if !ok {
		return nil, false
	}
	return w.complete(ctx, cur), true
}

func (w *Watcher) complete(ctx context.Context, cur model.Task) *Completion {
	elapsed := w.engine.Elapsed()
	w.engine.Pause()

	// Partial minutes count as a full minute
	actual := (elapsed + 59) / 60

	done := true
	patch := model.TaskPatch{Completed: &done, ActualDuration: &actual}
	prevCursor := w.list.Cursor()
	w.list.Update(cur.ID, patch)

	res := &Completion{Task: cur, ActualDuration: actual}
	patch.Apply(&res.Task)

	if w.store != nil {
		if _, err := w.store.UpdateTask(ctx, cur.ID, patch); err != nil {
			res.SaveErr = err
			if w.RollbackOnError {
				// Revert the local mark; the timer stays paused with its
				// elapsed time intact so the completion can be retried.
				notDone := false
				zero := 0
				w.list.Update(cur.ID, model.TaskPatch{Completed: &notDone, ActualDuration: &zero})
				res.Task = cur
				res.RolledBack = true
				return res
			}
		}
	}

	if w.notifier != nil {
		// Fire and forget; feedback failure never blocks completion
		_ = w.notifier.SendTaskComplete(cur.Title, actual)
	}

	if prevCursor < w.list.Len()-1 {
		w.list.SetCursor(prevCursor + 1)
		res.Advanced = true
	} else {
		res.Finished = true
	}

	// The next task does not auto-start
	w.engine.Reset()
	return res
}
