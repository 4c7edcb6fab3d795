package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rayclock/rayclock/internal/model"
)

// ListTasks returns all of the user's tasks in list order
func (s *Store) ListTasks(ctx context.Context, userID string) ([]model.Task, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, user_id, title, description, emoji, planned_duration,
		       actual_duration, completed, position, todoist_id,
		       last_synced_at, created_at, updated_at
		FROM tasks
		WHERE user_id = ?
		ORDER BY position, created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// GetTask returns a single task by ID
func (s *Store) GetTask(ctx context.Context, id string) (*model.Task, error) {
	row := s.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, emoji, planned_duration,
		       actual_duration, completed, position, todoist_id,
		       last_synced_at, created_at, updated_at
		FROM tasks WHERE id = ?
	`, id)

	t, err := scanTaskRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

// CreateTask validates and inserts a new task, assigning its identity.
// The position in t.Order is used as-is; callers obtain it from NextOrder.
func (s *Store) CreateTask(ctx context.Context, userID string, t model.Task) (*model.Task, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	t.ID = uuid.New().String()
	t.UserID = userID
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	var lastSynced interface{}
	if t.LastSyncedAt != nil {
		lastSynced = t.LastSyncedAt.Format(time.RFC3339)
	}

	_, err := s.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, emoji,
		                   planned_duration, actual_duration, completed,
		                   position, todoist_id, last_synced_at,
		                   created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.Title, t.Description, t.Emoji,
		t.PlannedDuration, t.ActualDuration, boolToInt(t.Completed),
		t.Order, t.TodoistID, lastSynced, now, now)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// UpdateTask merges the patch into the stored task and returns the result
func (s *Store) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (*model.Task, error) {
	if patch.IsEmpty() {
		return s.GetTask(ctx, id)
	}

	var sets []string
	var args []interface{}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Emoji != nil {
		sets = append(sets, "emoji = ?")
		args = append(args, *patch.Emoji)
	}
	if patch.PlannedDuration != nil {
		if *patch.PlannedDuration <= 0 {
			return nil, model.ErrNonPositiveDuration
		}
		sets = append(sets, "planned_duration = ?")
		args = append(args, *patch.PlannedDuration)
	}
	if patch.ActualDuration != nil {
		if *patch.ActualDuration < 0 {
			return nil, model.ErrNegativeActual
		}
		sets = append(sets, "actual_duration = ?")
		args = append(args, *patch.ActualDuration)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(*patch.Completed))
	}
	if patch.Order != nil {
		sets = append(sets, "position = ?")
		args = append(args, *patch.Order)
	}
	if patch.TodoistID != nil {
		sets = append(sets, "todoist_id = ?")
		args = append(args, *patch.TodoistID)
	}
	if patch.LastSyncedAt != nil {
		sets = append(sets, "last_synced_at = ?")
		args = append(args, patch.LastSyncedAt.Format(time.RFC3339))
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now())
	args = append(args, id)

	res, err := s.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	return s.GetTask(ctx, id)
}

// DeleteTask deletes a task by ID
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCompletedTasks clears the user's completed-task history and
// returns the number of rows removed
func (s *Store) DeleteCompletedTasks(ctx context.Context, userID string) (int, error) {
	res, err := s.ExecContext(ctx,
		`DELETE FROM tasks WHERE user_id = ? AND completed = 1`, userID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// NextOrder returns a position one past the user's highest. Positions are
// assigned monotonically and never reused.
func (s *Store) NextOrder(ctx context.Context, userID string) (int, error) {
	var next int
	err := s.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM tasks WHERE user_id = ?`, userID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next position: %w", err)
	}
	return next, nil
}

// Helper functions

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTaskRow(s scanner) (*model.Task, error) {
	var t model.Task
	var completed int
	var lastSynced *string

	err := s.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Emoji,
		&t.PlannedDuration, &t.ActualDuration, &completed, &t.Order,
		&t.TodoistID, &lastSynced, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Completed = completed == 1
	if lastSynced != nil {
		if parsed, err := time.Parse(time.RFC3339, *lastSynced); err == nil {
			t.LastSyncedAt = &parsed
		}
	}

	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
