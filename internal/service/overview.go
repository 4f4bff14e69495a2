// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"

	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/store"
)

// CollectionCount is the size of one collection.
type CollectionCount struct {
	Name   string
	Title  string
	Total  int64
	Active int64
}

// Overview summarizes the site for the dashboard and the status command.
type Overview struct {
	Collections []CollectionCount
	Users       int64
	Admins      int64
	Visits      int64
	Devices     []store.DeviceCount
	Messages    int64
}

// BuildOverview gathers the counts shown on the admin dashboard.
func BuildOverview(ctx context.Context, db store.DBTX) (Overview, error) {
	var ov Overview
	q := store.New(db)
	content := store.NewContent(db)

	for _, s := range model.Collections() {
		total, err := content.Count(ctx, s, false)
		if err != nil {
			return ov, storeErr("overview.collections", err)
		}
		active, err := content.Count(ctx, s, true)
		if err != nil {
			return ov, storeErr("overview.collections", err)
		}
		ov.Collections = append(ov.Collections, CollectionCount{Name: s.Name, Title: s.Title, Total: total, Active: active})
	}

	var err error
	if ov.Users, err = q.CountUsers(ctx); err != nil {
		return ov, storeErr("overview.users", err)
	}
	if ov.Admins, err = q.CountRoles(ctx, model.RoleAdmin); err != nil {
		return ov, storeErr("overview.admins", err)
	}
	if ov.Visits, err = q.CountVisits(ctx); err != nil {
		return ov, storeErr("overview.visits", err)
	}
	if ov.Devices, err = q.CountVisitsByDevice(ctx); err != nil {
		return ov, storeErr("overview.devices", err)
	}
	if ov.Messages, err = q.CountContactMessages(ctx); err != nil {
		return ov, storeErr("overview.messages", err)
	}
	return ov, nil
}
