package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rayclock/rayclock/internal/model"
	"github.com/rayclock/rayclock/internal/preset"
)

// ListPresets returns the user's presets with their members loaded
func (s *Store) ListPresets(ctx context.Context, userID string) ([]model.Preset, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, user_id, name, emoji, total_time, created_at, updated_at
		FROM presets
		WHERE user_id = ?
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}

	// Collect rows fully before the per-preset member queries; nested
	// queries during iteration deadlock with a single SQLite connection.
	var presets []model.Preset
	for rows.Next() {
		var p model.Preset
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Emoji, &p.TotalTime,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range presets {
		members, err := s.presetMembers(ctx, presets[i].ID)
		if err != nil {
			return nil, err
		}
		presets[i].Tasks = members
	}
	return presets, nil
}

// GetPreset returns a single preset with members by ID
func (s *Store) GetPreset(ctx context.Context, id string) (*model.Preset, error) {
	row := s.QueryRowContext(ctx, `
		SELECT id, user_id, name, emoji, total_time, created_at, updated_at
		FROM presets WHERE id = ?
	`, id)

	var p model.Preset
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Emoji, &p.TotalTime,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	members, err := s.presetMembers(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Tasks = members
	return &p, nil
}

// CreatePreset validates and inserts a preset with its members. The cached
// total is recomputed from the members rather than trusted.
func (s *Store) CreatePreset(ctx context.Context, userID string, p model.Preset) (*model.Preset, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	p.ID = uuid.New().String()
	p.UserID = userID
	p.TotalTime = p.ComputedTotal()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := s.Transaction(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO presets (id, user_id, name, emoji, total_time, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, p.ID, p.UserID, p.Name, p.Emoji, p.TotalTime, now, now)
		if err != nil {
			return err
		}
		return insertPresetMembers(ctx, tx, p.ID, p.Tasks)
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// UpdatePreset replaces the preset's fields and members
func (s *Store) UpdatePreset(ctx context.Context, p model.Preset) (*model.Preset, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	p.TotalTime = p.ComputedTotal()
	p.UpdatedAt = time.Now()

	err := s.Transaction(func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE presets SET name = ?, emoji = ?, total_time = ?, updated_at = ?
			WHERE id = ?
		`, p.Name, p.Emoji, p.TotalTime, p.UpdatedAt, p.ID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM preset_tasks WHERE preset_id = ?`, p.ID); err != nil {
			return err
		}
		return insertPresetMembers(ctx, tx, p.ID, p.Tasks)
	})
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// DeletePreset deletes a preset and its members. Tasks previously expanded
// from it are untouched; no ownership link is retained.
func (s *Store) DeletePreset(ctx context.Context, id string) error {
	res, err := s.ExecContext(ctx, `DELETE FROM presets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DuplicatePreset deep-copies a preset under a new identity with a
// "(Copy)" name suffix
func (s *Store) DuplicatePreset(ctx context.Context, id, userID string) (*model.Preset, error) {
	original, err := s.GetPreset(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.CreatePreset(ctx, userID, preset.Duplicate(*original))
}

func (s *Store) presetMembers(ctx context.Context, presetID string) ([]model.PresetTask, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT title, planned_duration, emoji
		FROM preset_tasks
		WHERE preset_id = ?
		ORDER BY position
	`, presetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.PresetTask
	for rows.Next() {
		var m model.PresetTask
		if err := rows.Scan(&m.Title, &m.PlannedDuration, &m.Emoji); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func insertPresetMembers(ctx context.Context, tx *sql.Tx, presetID string, members []model.PresetTask) error {
	for i, m := range members {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO preset_tasks (preset_id, position, title, planned_duration, emoji)
			VALUES (?, ?, ?, ?, ?)
		`, presetID, i, m.Title, m.PlannedDuration, m.Emoji)
		if err != nil {
			return err
		}
	}
	return nil
}
