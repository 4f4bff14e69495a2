// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/artist-site/internal/model"
)

const createUser = `
INSERT INTO users (id, email, password_hash, created_at, updated_at)
VALUES (?, lower(?), ?, ?, ?)
RETURNING id, email, password_hash, created_at, updated_at
`

// CreateUserParams are the inputs of CreateUser.
type CreateUserParams struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a user. The email is stored lowercased.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.ID,
		arg.Email,
		arg.PasswordHash,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i model.User
	err := row.Scan(&i.ID, &i.Email, &i.PasswordHash, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getUserByID = `
SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = ?
`

// GetUserByID returns the user with the given id.
func (q *Queries) GetUserByID(ctx context.Context, id string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	var i model.User
	err := row.Scan(&i.ID, &i.Email, &i.PasswordHash, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getUserByEmail = `
SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = lower(?)
`

// GetUserByEmail looks a user up by email, case-insensitively.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, getUserByEmail, email)
	var i model.User
	err := row.Scan(&i.ID, &i.Email, &i.PasswordHash, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const updateUserPassword = `
UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
`

// UpdateUserPasswordParams are the inputs of UpdateUserPassword.
type UpdateUserPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           string
}

// UpdateUserPassword replaces a user's password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

const countUsers = `SELECT COUNT(*) FROM users`

// CountUsers returns the number of registered users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&n)
	return n, err
}
