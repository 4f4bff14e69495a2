// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"

	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/store"
)

// RoleResolver answers whether an identity holds the admin role. Results are
// never cached.
type RoleResolver struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewRoleResolver creates a RoleResolver.
func NewRoleResolver(db store.DBTX, logger *slog.Logger) *RoleResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleResolver{queries: store.New(db), logger: logger}
}

// IsAdmin reports whether userID has the admin role. A missing row or a
// lookup failure both mean false.
func (r *RoleResolver) IsAdmin(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	ok, err := r.queries.HasRole(ctx, store.HasRoleParams{
		UserID: userID,
		Role:   model.RoleAdmin,
		Scope:  model.DefaultRoleScope,
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "role lookup failed", "user_id", userID, "error", err)
		return false
	}
	return ok
}
