// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/olegiv/artist-site/internal/model"
)

// Content is the generic store for the schema-driven collections. Table and
// column names always come from a model.Schema, never from user input.
type Content struct {
	db  DBTX
	sb  sq.StatementBuilderType
	now func() time.Time
}

// NewContent returns a Content store bound to db.
func NewContent(db DBTX) *Content {
	return &Content{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// ListOptions narrows and orders a List call.
type ListOptions struct {
	ActiveOnly bool
	// OnOrAfter drops rows whose Schema.UpcomingColumn is before this
	// YYYY-MM-DD date. Ignored when empty or the schema has no such column.
	OnOrAfter string
	Order     model.Order
	Limit     int
	// Where holds exact matches on schema columns.
	Where map[string]string
}

func selectColumns(s model.Schema) []string {
	cols := []string{"id"}
	cols = append(cols, s.ColumnNames()...)
	return append(cols, "is_active", "created_at", "updated_at")
}

// List returns the rows of a collection.
func (c *Content) List(ctx context.Context, s model.Schema, opts ListOptions) ([]model.Record, error) {
	const op = "store.Content.List"

	qb := c.sb.Select(selectColumns(s)...).From(s.Table)

	if opts.ActiveOnly {
		qb = qb.Where(sq.Eq{"is_active": true})
	}
	if opts.OnOrAfter != "" && s.UpcomingColumn != "" {
		qb = qb.Where(sq.GtOrEq{s.UpcomingColumn: opts.OnOrAfter})
	}
	for col, val := range opts.Where {
		if _, ok := s.Column(col); !ok {
			return nil, fmt.Errorf("%s: unknown column %q for %s", op, col, s.Name)
		}
		qb = qb.Where(sq.Eq{col: val})
	}

	order := opts.Order
	if order.Column == "" {
		order = s.AdminOrder
	}
	qb = qb.OrderBy(orderClause(order), "created_at DESC", "id")

	if opts.Limit > 0 {
		qb = qb.Limit(uint64(opts.Limit))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		rec, err := scanRecord(s, rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

// Get returns one row by id, or sql.ErrNoRows.
func (c *Content) Get(ctx context.Context, s model.Schema, id string) (model.Record, error) {
	const op = "store.Content.Get"

	query, args, err := c.sb.Select(selectColumns(s)...).
		From(s.Table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := scanRecord(s, c.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// Insert adds a row with a fresh id. New rows are always active.
func (c *Content) Insert(ctx context.Context, s model.Schema, fields map[string]string) (model.Record, error) {
	const op = "store.Content.Insert"

	id := uuid.NewString()
	now := c.now()

	cols := []string{"id"}
	vals := []interface{}{id}
	for _, col := range s.Columns {
		v, err := columnValue(col, fields[col.Name])
		if err != nil {
			return model.Record{}, fmt.Errorf("%s: %w", op, err)
		}
		cols = append(cols, col.Name)
		vals = append(vals, v)
	}
	cols = append(cols, "is_active", "created_at", "updated_at")
	vals = append(vals, true, now, now)

	query, args, err := c.sb.Insert(s.Table).Columns(cols...).Values(vals...).ToSql()
	if err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", op, err)
	}

	return c.Get(ctx, s, id)
}

// Update overwrites every editable column of a row. Unknown ids yield sql.ErrNoRows.
func (c *Content) Update(ctx context.Context, s model.Schema, id string, fields map[string]string) (model.Record, error) {
	const op = "store.Content.Update"

	ub := c.sb.Update(s.Table)
	for _, col := range s.Columns {
		v, err := columnValue(col, fields[col.Name])
		if err != nil {
			return model.Record{}, fmt.Errorf("%s: %w", op, err)
		}
		ub = ub.Set(col.Name, v)
	}
	ub = ub.Set("updated_at", c.now()).Where(sq.Eq{"id": id})

	if err := c.execOne(ctx, op, ub); err != nil {
		return model.Record{}, err
	}
	return c.Get(ctx, s, id)
}

// SetActive changes only the visibility flag of a row.
func (c *Content) SetActive(ctx context.Context, s model.Schema, id string, active bool) error {
	const op = "store.Content.SetActive"

	ub := c.sb.Update(s.Table).
		Set("is_active", active).
		Set("updated_at", c.now()).
		Where(sq.Eq{"id": id})

	return c.execOne(ctx, op, ub)
}

// Delete permanently removes a row.
func (c *Content) Delete(ctx context.Context, s model.Schema, id string) error {
	const op = "store.Content.Delete"
	return c.execOne(ctx, op, c.sb.Delete(s.Table).Where(sq.Eq{"id": id}))
}

// Count returns the number of rows, optionally only active ones.
func (c *Content) Count(ctx context.Context, s model.Schema, activeOnly bool) (int64, error) {
	const op = "store.Content.Count"

	qb := c.sb.Select("COUNT(*)").From(s.Table)
	if activeOnly {
		qb = qb.Where(sq.Eq{"is_active": true})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var n int64
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// execOne runs a statement that must touch exactly one row.
func (c *Content) execOne(ctx context.Context, op string, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}

// orderClause sorts NULLs above every value when descending and below
// every value when ascending, so an undated press item leads the list.
func orderClause(o model.Order) string {
	if o.Desc {
		return o.Column + " DESC NULLS FIRST"
	}
	return o.Column + " ASC NULLS LAST"
}

// columnValue converts a form value to what the column stores: NULL for
// empty optional text, an integer for number columns.
func columnValue(col model.Column, raw string) (interface{}, error) {
	v := strings.TrimSpace(raw)
	if col.Kind == model.KindNumber {
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %q is not a number", col.Name, v)
		}
		return n, nil
	}
	if v == "" && !col.Required {
		return nil, nil
	}
	return v, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s model.Schema, row rowScanner) (model.Record, error) {
	var rec model.Record
	values := make([]sql.NullString, len(s.Columns))

	dest := make([]interface{}, 0, len(s.Columns)+4)
	dest = append(dest, &rec.ID)
	for i := range values {
		dest = append(dest, &values[i])
	}
	dest = append(dest, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt)

	if err := row.Scan(dest...); err != nil {
		return model.Record{}, err
	}

	rec.Fields = make(map[string]string, len(s.Columns))
	for i, col := range s.Columns {
		if values[i].Valid {
			rec.Fields[col.Name] = values[i].String
		}
	}
	return rec, nil
}
