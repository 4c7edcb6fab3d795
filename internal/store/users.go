package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rayclock/rayclock/internal/model"
)

// CreateUser inserts a new account and assigns its identity
func (s *Store) CreateUser(ctx context.Context, email, name, passwordHash string) (*model.User, error) {
	now := time.Now()
	u := model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.Name, u.PasswordHash, now, now)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// GetUser returns an account by ID
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.scanUser(s.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE id = ?
	`, id))
}

// GetUserByEmail returns an account by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.scanUser(s.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE email = ?
	`, email))
}

// DefaultUser returns the account when exactly one exists; used by the
// quick-add command, which has no login flow
func (s *Store) DefaultUser(ctx context.Context) (*model.User, error) {
	var count int
	if err := s.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return nil, err
	}
	if count != 1 {
		return nil, ErrNotFound
	}
	return s.scanUser(s.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users LIMIT 1
	`))
}

func (s *Store) scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
