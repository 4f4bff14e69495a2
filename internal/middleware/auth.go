// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// request context handling and response hardening.
package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/artist-site/internal/logging"
	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/service"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyActor holds the service.Actor of the request.
const ContextKeyActor ContextKey = "actor"

// SessionKeyUserID is the session key holding the signed-in user's id.
const SessionKeyUserID = "user_id"

// AuthPath is where unauthenticated visitors are sent.
const AuthPath = "/auth"

// UserLoader looks up the account behind a session.
type UserLoader interface {
	User(ctx context.Context, id string) (model.User, error)
}

// AdminChecker resolves the admin role of a user.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID string) bool
}

// Auth creates middleware that requires authentication.
// It checks for a user session and redirects to the auth page if there is none.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetString(r.Context(), SessionKeyUserID) == "" {
				http.Redirect(w, r, AuthPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadIdentity loads the signed-in user and resolves the admin role on every
// request, storing the resulting Actor in the context. A session whose user
// no longer exists is destroyed and redirected to the auth page.
// This should be used after Auth middleware.
func LoadIdentity(sm *scs.SessionManager, users UserLoader, roles AdminChecker) func(http.Handler) http.Handler {
	return identity(sm, users, roles, true)
}

// OptionalIdentity is LoadIdentity for pages where signing in is optional.
// It never redirects.
func OptionalIdentity(sm *scs.SessionManager, users UserLoader, roles AdminChecker) func(http.Handler) http.Handler {
	return identity(sm, users, roles, false)
}

func identity(sm *scs.SessionManager, users UserLoader, roles AdminChecker, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetString(r.Context(), SessionKeyUserID)
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.User(r.Context(), userID)
			if err != nil {
				if required {
					_ = sm.Destroy(r.Context())
					http.Redirect(w, r, AuthPath, http.StatusSeeOther)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			actor := service.Actor{
				UserID:  user.ID,
				Email:   user.Email,
				IsAdmin: roles.IsAdmin(r.Context(), user.ID),
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor service.Actor) context.Context {
	return context.WithValue(ctx, ContextKeyActor, actor)
}

// GetActor returns the Actor of the request, or the zero Actor for
// anonymous visitors.
func GetActor(r *http.Request) service.Actor {
	actor, _ := r.Context().Value(ContextKeyActor).(service.Actor)
	return actor
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logging.WithPath(r.Context(), r.URL.Path)))
	})
}
