package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rayclock/rayclock/internal/model"
)

// GetOrCreateSettings returns the user's settings singleton, creating it
// with defaults on first access
func (s *Store) GetOrCreateSettings(ctx context.Context, userID string) (*model.Settings, error) {
	settings, err := s.getSettings(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	defaults := model.DefaultSettings(userID)
	now := time.Now()
	defaults.CreatedAt = now
	defaults.UpdatedAt = now

	_, err = s.ExecContext(ctx, `
		INSERT INTO settings (user_id, default_time, accent_color, theme,
		                      smart_time_detection, pie_timer_enabled,
		                      todoist_api_key, todoist_sync_enabled,
		                      created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, defaults.UserID, defaults.DefaultTime, defaults.AccentColor,
		string(defaults.Theme), boolToInt(defaults.SmartTimeDetection),
		boolToInt(defaults.PieTimerEnabled), defaults.TodoistAPIKey,
		boolToInt(defaults.TodoistSyncEnabled), now, now)
	if err != nil {
		return nil, err
	}

	return &defaults, nil
}

// UpdateSettings merges the patch into the user's settings field by field
func (s *Store) UpdateSettings(ctx context.Context, userID string, patch model.SettingsPatch) (*model.Settings, error) {
	var sets []string
	var args []interface{}

	if patch.DefaultTime != nil {
		if *patch.DefaultTime <= 0 {
			return nil, model.ErrNonPositiveDuration
		}
		sets = append(sets, "default_time = ?")
		args = append(args, *patch.DefaultTime)
	}
	if patch.AccentColor != nil {
		sets = append(sets, "accent_color = ?")
		args = append(args, *patch.AccentColor)
	}
	if patch.Theme != nil {
		sets = append(sets, "theme = ?")
		args = append(args, string(*patch.Theme))
	}
	if patch.SmartTimeDetection != nil {
		sets = append(sets, "smart_time_detection = ?")
		args = append(args, boolToInt(*patch.SmartTimeDetection))
	}
	if patch.PieTimerEnabled != nil {
		sets = append(sets, "pie_timer_enabled = ?")
		args = append(args, boolToInt(*patch.PieTimerEnabled))
	}
	if patch.TodoistAPIKey != nil {
		sets = append(sets, "todoist_api_key = ?")
		args = append(args, *patch.TodoistAPIKey)
	}
	if patch.TodoistSyncEnabled != nil {
		sets = append(sets, "todoist_sync_enabled = ?")
		args = append(args, boolToInt(*patch.TodoistSyncEnabled))
	}

	if len(sets) == 0 {
		return s.getSettings(ctx, userID)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now())
	args = append(args, userID)

	res, err := s.ExecContext(ctx,
		"UPDATE settings SET "+strings.Join(sets, ", ")+" WHERE user_id = ?", args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	return s.getSettings(ctx, userID)
}

func (s *Store) getSettings(ctx context.Context, userID string) (*model.Settings, error) {
	row := s.QueryRowContext(ctx, `
		SELECT user_id, default_time, accent_color, theme,
		       smart_time_detection, pie_timer_enabled,
		       todoist_api_key, todoist_sync_enabled,
		       created_at, updated_at
		FROM settings WHERE user_id = ?
	`, userID)

	var st model.Settings
	var theme string
	var smart, pie, todoistSync int
	err := row.Scan(&st.UserID, &st.DefaultTime, &st.AccentColor, &theme,
		&smart, &pie, &st.TodoistAPIKey, &todoistSync,
		&st.CreatedAt, &st.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	st.Theme = model.Theme(theme)
	st.SmartTimeDetection = smart == 1
	st.PieTimerEnabled = pie == 1
	st.TodoistSyncEnabled = todoistSync == 1
	return &st, nil
}
