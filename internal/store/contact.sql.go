// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/artist-site/internal/model"
)

const createContactMessage = `
INSERT INTO contact_messages (id, name, email, phone, message, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`

// CreateContactMessageParams are the inputs of CreateContactMessage.
type CreateContactMessageParams struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}

// CreateContactMessage stores a contact form submission.
func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) error {
	_, err := q.db.ExecContext(ctx, createContactMessage,
		arg.ID, arg.Name, arg.Email, arg.Phone, arg.Message, arg.CreatedAt)
	return err
}

const listContactMessages = `
SELECT id, name, email, phone, message, created_at
FROM contact_messages ORDER BY created_at DESC
`

// ListContactMessages returns every message, newest first.
func (q *Queries) ListContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx, listContactMessages)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.ContactMessage
	for rows.Next() {
		var i model.ContactMessage
		if err := rows.Scan(&i.ID, &i.Name, &i.Email, &i.Phone, &i.Message, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteContactMessage = `DELETE FROM contact_messages WHERE id = ?`

// DeleteContactMessage removes a message. It reports how many rows went away.
func (q *Queries) DeleteContactMessage(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteContactMessage, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countContactMessages = `SELECT COUNT(*) FROM contact_messages`

// CountContactMessages returns the number of stored messages.
func (q *Queries) CountContactMessages(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countContactMessages).Scan(&n)
	return n, err
}
