// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/artist-site/internal/auth"
	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/store"
)

// Credentials is the sign-in/sign-up form.
type Credentials struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// Identity registers and authenticates users.
type Identity struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewIdentity creates an Identity service.
func NewIdentity(db store.DBTX, logger *slog.Logger) *Identity {
	if logger == nil {
		logger = slog.Default()
	}
	return &Identity{
		queries: store.New(db),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new account. The new identity carries no role; admin
// access is granted only through elevation.
func (s *Identity) SignUp(ctx context.Context, c Credentials) (model.User, error) {
	c.Email = normalizeEmail(c.Email)
	if err := validateStruct(c); err != nil {
		return model.User{}, err
	}

	_, err := s.queries.GetUserByEmail(ctx, c.Email)
	switch {
	case err == nil:
		return model.User{}, &ValidationError{Fields: map[string]string{
			"email": "Este email já está registrado",
		}}
	case !errors.Is(err, sql.ErrNoRows):
		return model.User{}, storeErr("identity.SignUp", err)
	}

	hash, err := auth.HashPassword(c.Password)
	if err != nil {
		return model.User{}, &StoreError{Op: "identity.SignUp", Err: err}
	}

	now := s.now()
	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		ID:           uuid.NewString(),
		Email:        c.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, storeErr("identity.SignUp", err)
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return user, nil
}

// SignIn checks credentials. Unknown emails and wrong passwords both yield
// ErrUnauthorized.
func (s *Identity) SignIn(ctx context.Context, c Credentials) (model.User, error) {
	email := normalizeEmail(c.Email)
	if email == "" || c.Password == "" {
		return model.User{}, &ValidationError{Fields: map[string]string{
			"email": "Preencha todos os campos",
		}}
	}

	user, err := s.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUnauthorized
	}
	if err != nil {
		return model.User{}, storeErr("identity.SignIn", err)
	}

	ok, err := auth.CheckPassword(c.Password, user.PasswordHash)
	if err != nil {
		s.logger.WarnContext(ctx, "stored password hash unreadable", "user_id", user.ID, "error", err)
		return model.User{}, ErrUnauthorized
	}
	if !ok {
		return model.User{}, ErrUnauthorized
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(c.Password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: hash, UpdatedAt: s.now(), ID: user.ID,
			}); err != nil {
				s.logger.WarnContext(ctx, "password rehash failed", "user_id", user.ID, "error", err)
			}
		}
	}

	return user, nil
}

// User returns the account with the given id.
func (s *Identity) User(ctx context.Context, id string) (model.User, error) {
	user, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return model.User{}, storeErr("identity.User", err)
	}
	return user, nil
}
