// Package preset materializes saved templates into real tasks and handles
// template housekeeping such as duplication.
package preset

import (
	"context"
	"fmt"
	"time"

	"github.com/rayclock/rayclock/internal/model"
)

// TaskCreator is the persistence collaborator used during expansion
type TaskCreator interface {
	CreateTask(ctx context.Context, userID string, t model.Task) (*model.Task, error)
}

// Expand converts the preset's members into real, owned tasks appended in
// template order, with positions startingOrder, startingOrder+1, and so on.
//
// Expansion is not transactional: a mid-sequence creation failure stops the
// loop and returns both the tasks created so far and the error, leaving it
// to the caller to keep or discard the partial result.
func Expand(ctx context.Context, store TaskCreator, p model.Preset, userID string, startingOrder int) ([]model.Task, error) {
	created := make([]model.Task, 0, len(p.Tasks))
	for i, member := range p.Tasks {
		emoji := member.Emoji
		if emoji == "" {
			emoji = model.DefaultEmoji
		}
		t := model.Task{
			UserID:          userID,
			Title:           member.Title,
			Emoji:           emoji,
			PlannedDuration: member.PlannedDuration,
			ActualDuration:  0,
			Completed:       false,
			Order:           startingOrder + i,
		}
		saved, err := store.CreateTask(ctx, userID, t)
		if err != nil {
			return created, fmt.Errorf("expanding preset %q at member %d: %w", p.Name, i, err)
		}
		created = append(created, *saved)
	}
	return created, nil
}

// Duplicate returns a deep copy of the preset with a "(Copy)" name suffix.
// Identity and timestamps are cleared so the store assigns fresh ones.
func Duplicate(p model.Preset) model.Preset {
	copied := p
	copied.ID = ""
	copied.Name = p.Name + " (Copy)"
	copied.Tasks = make([]model.PresetTask, len(p.Tasks))
	copy(copied.Tasks, p.Tasks)
	copied.TotalTime = copied.ComputedTotal()
	copied.CreatedAt = time.Time{}
	copied.UpdatedAt = time.Time{}
	return copied
}
