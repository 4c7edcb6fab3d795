package todoist

import (
	"context"
	"fmt"
	"time"

	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/smarttime"
	"github.com/rayclock/rayclock/internal/store"
)

// Syncer pulls Todoist tasks into the local list. Tasks already linked
// by Todoist ID are left alone; sync never duplicates.
type Syncer struct {
	client *Client
	store  *store.Store
}

func NewSyncer(client *Client, st *store.Store) *Syncer {
	return &Syncer{client: client, store: st}
}

// Result reports what a pull changed.
type Result struct {
	Imported int
	Skipped  int
}

// Pull fetches active Todoist tasks and creates local tasks for the ones
// not seen before. Planned time comes from the Todoist duration when set,
// then from a trailing number in the title when smart detection is on,
// then from the default.
func (sy *Syncer) Pull(ctx context.Context, userID string) (Result, error) {
	var res Result

	settings, err := sy.store.GetOrCreateSettings(ctx, userID)
	if err != nil {
		return res, err
	}

	external, err := sy.client.ActiveTasks(ctx)
	if err != nil {
		return res, err
	}

	existing, err := sy.store.ListTasks(ctx, userID)
	if err != nil {
		return res, err
	}
	linked := make(map[string]bool, len(existing))
	for _, t := range existing {
		if t.TodoistID != "" {
			linked[t.TodoistID] = true
		}
	}

	now := time.Now()
	for _, ext := range external {
		if ext.IsCompleted || linked[ext.ID] {
			res.Skipped++
			continue
		}

		title := ext.Content
		planned := ext.Duration.Minutes()
		if planned == 0 && settings.SmartTimeDetection {
			if trimmed, minutes, ok := smarttime.Detect(title); ok {
				title = trimmed
				planned = minutes
			}
		}
		if planned == 0 {
			planned = settings.DefaultTime
		}

		order, err := sy.store.NextOrder(ctx, userID)
		if err != nil {
			return res, err
		}

		syncedAt := now
		_, err = sy.store.CreateTask(ctx, userID, model.Task{
			Title:           title,
			Description:     ext.Description,
			PlannedDuration: planned,
			Order:           order,
			TodoistID:       ext.ID,
			LastSyncedAt:    &syncedAt,
		})
		if err != nil {
			return res, fmt.Errorf("failed to import %q: %w", ext.Content, err)
		}
		res.Imported++
	}

	return res, nil
}

// PushCompletion closes the linked Todoist task for a locally completed
// task. Tasks without a Todoist link are a no-op.
func (sy *Syncer) PushCompletion(ctx context.Context, task model.Task) error {
	if task.TodoistID == "" {
		return nil
	}
	return sy.client.CloseTask(ctx, task.TodoistID)
}
