// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createVisit = `
INSERT INTO site_visits (id, page, device, visited_at) VALUES (?, ?, ?, ?)
`

// CreateVisitParams are the inputs of CreateVisit.
type CreateVisitParams struct {
	ID        string
	Page      string
	Device    string
	VisitedAt time.Time
}

// CreateVisit appends a visit record.
func (q *Queries) CreateVisit(ctx context.Context, arg CreateVisitParams) error {
	_, err := q.db.ExecContext(ctx, createVisit, arg.ID, arg.Page, arg.Device, arg.VisitedAt)
	return err
}

const countVisits = `SELECT COUNT(*) FROM site_visits`

// CountVisits returns the total number of visit records.
func (q *Queries) CountVisits(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countVisits).Scan(&n)
	return n, err
}

const countVisitsByDevice = `
SELECT device, COUNT(*) FROM site_visits GROUP BY device ORDER BY COUNT(*) DESC
`

// DeviceCount is one row of CountVisitsByDevice.
type DeviceCount struct {
	Device string
	Count  int64
}

// CountVisitsByDevice breaks the visit total down by device class.
func (q *Queries) CountVisitsByDevice(ctx context.Context) ([]DeviceCount, error) {
	rows, err := q.db.QueryContext(ctx, countVisitsByDevice)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []DeviceCount
	for rows.Next() {
		var i DeviceCount
		if err := rows.Scan(&i.Device, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
