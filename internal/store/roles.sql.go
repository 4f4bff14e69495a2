// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/artist-site/internal/model"
)

const hasRole = `
SELECT EXISTS (
    SELECT 1 FROM user_roles WHERE user_id = ? AND role = ? AND scope = ?
)
`

// HasRoleParams are the inputs of HasRole.
type HasRoleParams struct {
	UserID string
	Role   string
	Scope  string
}

// HasRole reports whether a role assignment row exists.
func (q *Queries) HasRole(ctx context.Context, arg HasRoleParams) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, hasRole, arg.UserID, arg.Role, arg.Scope).Scan(&exists)
	return exists, err
}

const upsertRole = `
INSERT INTO user_roles (id, user_id, role, scope, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, role, scope) DO UPDATE SET updated_at = excluded.updated_at
RETURNING id, user_id, role, scope, created_at, updated_at
`

// UpsertRoleParams are the inputs of UpsertRole.
type UpsertRoleParams struct {
	ID        string
	UserID    string
	Role      string
	Scope     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpsertRole grants a role. A repeated grant touches updated_at on the
// existing row and returns it unchanged otherwise.
func (q *Queries) UpsertRole(ctx context.Context, arg UpsertRoleParams) (model.RoleAssignment, error) {
	row := q.db.QueryRowContext(ctx, upsertRole,
		arg.ID,
		arg.UserID,
		arg.Role,
		arg.Scope,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i model.RoleAssignment
	err := row.Scan(&i.ID, &i.UserID, &i.Role, &i.Scope, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listRolesForUser = `
SELECT id, user_id, role, scope, created_at, updated_at
FROM user_roles WHERE user_id = ? ORDER BY role
`

// ListRolesForUser returns every role assigned to a user.
func (q *Queries) ListRolesForUser(ctx context.Context, userID string) ([]model.RoleAssignment, error) {
	rows, err := q.db.QueryContext(ctx, listRolesForUser, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.RoleAssignment
	for rows.Next() {
		var i model.RoleAssignment
		if err := rows.Scan(&i.ID, &i.UserID, &i.Role, &i.Scope, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const countRoles = `SELECT COUNT(*) FROM user_roles WHERE role = ?`

// CountRoles returns how many assignments of role exist.
func (q *Queries) CountRoles(ctx context.Context, role string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countRoles, role).Scan(&n)
	return n, err
}
