// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/artist-site/internal/auth"
	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/store"
)

// ElevationResult describes a successful elevation.
type ElevationResult struct {
	UserID       string
	Email        string
	AlreadyAdmin bool
}

// Message is the confirmation returned to the caller.
func (r ElevationResult) Message() string {
	if r.AlreadyAdmin {
		return fmt.Sprintf("Usuário %s já é administrador", r.Email)
	}
	return fmt.Sprintf("Usuário %s agora é administrador!", r.Email)
}

// Elevation grants the admin role to an existing account holding the setup
// token. With no token configured it rejects every request.
type Elevation struct {
	queries *store.Queries
	secret  string
	logger  *slog.Logger
	now     func() time.Time
}

// NewElevation creates the elevation service. An empty secret disables it.
func NewElevation(db store.DBTX, secret string, logger *slog.Logger) *Elevation {
	if logger == nil {
		logger = slog.Default()
	}
	return &Elevation{
		queries: store.New(db),
		secret:  secret,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Enabled reports whether a setup token is configured.
func (e *Elevation) Enabled() bool {
	return e.secret != ""
}

// Elevate checks the token, then the email, then upserts the admin role.
// Nothing is written unless every check passes.
func (e *Elevation) Elevate(ctx context.Context, email, token string) (ElevationResult, error) {
	if !auth.SecretsEqual(token, e.secret) {
		e.logger.WarnContext(ctx, "elevation rejected: invalid token")
		return ElevationResult{}, ErrUnauthorized
	}

	email = normalizeEmail(email)
	if email == "" {
		return ElevationResult{}, &ValidationError{Fields: map[string]string{"email": "Email é obrigatório"}}
	}

	user, err := e.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return ElevationResult{}, ErrNotFound
	}
	if err != nil {
		return ElevationResult{}, storeErr("elevation.lookup", err)
	}

	already, err := e.queries.HasRole(ctx, store.HasRoleParams{
		UserID: user.ID, Role: model.RoleAdmin, Scope: model.DefaultRoleScope,
	})
	if err != nil {
		return ElevationResult{}, storeErr("elevation.check", err)
	}

	now := e.now()
	if _, err := e.queries.UpsertRole(ctx, store.UpsertRoleParams{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      model.RoleAdmin,
		Scope:     model.DefaultRoleScope,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return ElevationResult{}, storeErr("elevation.upsert", err)
	}

	e.logger.InfoContext(ctx, "user elevated to admin", "user_id", user.ID, "already_admin", already)
	return ElevationResult{UserID: user.ID, Email: user.Email, AlreadyAdmin: already}, nil
}
