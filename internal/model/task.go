package model

import (
	"time"
)

// DefaultEmoji is the display glyph used when a task has none.
const DefaultEmoji = "📝"

// Task represents one unit of planned work
type Task struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Emoji           string     `json:"emoji,omitempty"`
	PlannedDuration int        `json:"planned_duration"` // Minutes
	ActualDuration  int        `json:"actual_duration"`  // Minutes, 0 until completion
	Completed       bool       `json:"completed"`
	Order           int        `json:"order"` // Position within the owner's list
	TodoistID       string     `json:"todoist_id,omitempty"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// PlannedSeconds returns the planned duration in seconds
func (t *Task) PlannedSeconds() int {
	return t.PlannedDuration * 60
}

// DisplayEmoji returns the task's emoji, or the default glyph
func (t *Task) DisplayEmoji() string {
	if t.Emoji == "" {
		return DefaultEmoji
	}
	return t.Emoji
}

// Validate checks the task's invariants before it is persisted
func (t *Task) Validate() error {
	if isBlank(t.Title) {
		return ErrEmptyTitle
	}
	if t.PlannedDuration <= 0 {
		return ErrNonPositiveDuration
	}
	if t.ActualDuration < 0 {
		return ErrNegativeActual
	}
	return nil
}

// TaskPatch is a partial update merged into an existing task.
// Nil fields are left untouched.
type TaskPatch struct {
	Title           *string
	Description     *string
	Emoji           *string
	PlannedDuration *int
	ActualDuration  *int
	Completed       *bool
	Order           *int
	TodoistID       *string
	LastSyncedAt    *time.Time
}

// Apply merges the patch into the task
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Emoji != nil {
		t.Emoji = *p.Emoji
	}
	if p.PlannedDuration != nil {
		t.PlannedDuration = *p.PlannedDuration
	}
	if p.ActualDuration != nil {
		t.ActualDuration = *p.ActualDuration
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	if p.TodoistID != nil {
		t.TodoistID = *p.TodoistID
	}
	if p.LastSyncedAt != nil {
		t.LastSyncedAt = p.LastSyncedAt
	}
}

// IsEmpty returns true if the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Emoji == nil &&
		p.PlannedDuration == nil && p.ActualDuration == nil &&
		p.Completed == nil && p.Order == nil && p.TodoistID == nil &&
		p.LastSyncedAt == nil
}
