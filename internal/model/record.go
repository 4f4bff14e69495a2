// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models shared across the application: the
// schema-driven content records, the typed entities rendered on the public
// site, users and role assignments.
package model

import (
	"strconv"
	"strings"
	"time"
)

// ColumnKind selects the form control and validation rule for a column.
type ColumnKind string

// Column kinds.
const (
	KindText     ColumnKind = "text"
	KindTextarea ColumnKind = "textarea"
	KindURL      ColumnKind = "url"
	KindDate     ColumnKind = "date"
	KindTime     ColumnKind = "time"
	KindNumber   ColumnKind = "number"
	KindSelect   ColumnKind = "select"
)

// Column describes one editable field of a collection.
type Column struct {
	Name     string
	Label    string
	Kind     ColumnKind
	Required bool
	Options  []string // KindSelect only
}

// Order is a single ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// Schema parameterizes a content collection: which table it lives in, the
// fields an editor can change and how lists are ordered and capped.
type Schema struct {
	Name        string // URL segment, e.g. "press"
	Title       string // Heading shown in the admin panel
	Singular    string
	Added       string // Notice after a successful create
	Table       string
	Columns     []Column
	AdminOrder  Order
	PublicOrder Order
	PublicLimit int // 0 means no cap

	// UpcomingColumn, when set, hides rows whose date in that column is
	// before today from public lists.
	UpcomingColumn string

	// GroupColumn, when set, is a select column the admin list can be
	// filtered by and public lists are grouped by.
	GroupColumn string
}

// Column returns the column named name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the editable column names in declaration order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// RequiredColumns returns the columns that must be non-empty on save.
func (s Schema) RequiredColumns() []Column {
	var cols []Column
	for _, c := range s.Columns {
		if c.Required {
			cols = append(cols, c)
		}
	}
	return cols
}

// Record is one row of a content collection.
type Record struct {
	ID        string
	Fields    map[string]string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Get returns the value of a field, or "" when it is unset.
func (r Record) Get(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

// Int returns a numeric field, or 0 when it is unset or not a number.
func (r Record) Int(name string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.Get(name)))
	if err != nil {
		return 0
	}
	return n
}

// Date parses a YYYY-MM-DD field. The zero time is returned when unset.
func (r Record) Date(name string) time.Time {
	t, err := time.Parse(DateLayout, r.Get(name))
	if err != nil {
		return time.Time{}
	}
	return t
}

// DateLayout is the storage format of date columns.
const DateLayout = "2006-01-02"

// TimeLayout is the storage format of time-of-day columns.
const TimeLayout = "15:04"
