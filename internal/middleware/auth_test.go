// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/artist-site/internal/logging"
	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/service"
)

type fakeUsers map[string]model.User

func (f fakeUsers) User(_ context.Context, id string) (model.User, error) {
	u, ok := f[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type fakeRoles map[string]bool

func (f fakeRoles) IsAdmin(_ context.Context, userID string) bool {
	return f[userID]
}

func sessionRequest(t *testing.T, sm *scs.SessionManager, userID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("sm.Load: %v", err)
	}
	if userID != "" {
		sm.Put(ctx, SessionKeyUserID, userID)
	}
	return req.WithContext(ctx)
}

func TestAuth(t *testing.T) {
	sm := scs.New()
	var called bool
	handler := Auth(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest(t, sm, ""))
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != AuthPath {
		t.Errorf("anonymous: got %d %q, want redirect to %s", rr.Code, rr.Header().Get("Location"), AuthPath)
	}
	if called {
		t.Error("anonymous request reached the handler")
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest(t, sm, "u-1"))
	if !called {
		t.Error("signed-in request did not reach the handler")
	}
}

func TestLoadIdentity(t *testing.T) {
	sm := scs.New()
	users := fakeUsers{
		"u-admin": {ID: "u-admin", Email: "dj@example.com"},
		"u-fan":   {ID: "u-fan", Email: "fan@example.com"},
	}
	roles := fakeRoles{"u-admin": true}

	var got service.Actor
	handler := LoadIdentity(sm, users, roles)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetActor(r)
	}))

	tests := []struct {
		userID string
		want   service.Actor
	}{
		{"u-admin", service.Actor{UserID: "u-admin", Email: "dj@example.com", IsAdmin: true}},
		{"u-fan", service.Actor{UserID: "u-fan", Email: "fan@example.com"}},
		{"", service.Actor{}},
	}
	for _, tt := range tests {
		got = service.Actor{}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, sessionRequest(t, sm, tt.userID))
		if got != tt.want {
			t.Errorf("user %q: actor = %+v, want %+v", tt.userID, got, tt.want)
		}
	}
}

func TestLoadIdentity_RoleReevaluatedPerRequest(t *testing.T) {
	sm := scs.New()
	users := fakeUsers{"u-1": {ID: "u-1", Email: "dj@example.com"}}
	roles := fakeRoles{}

	var isAdmin bool
	handler := LoadIdentity(sm, users, roles)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isAdmin = GetActor(r).IsAdmin
	}))

	handler.ServeHTTP(httptest.NewRecorder(), sessionRequest(t, sm, "u-1"))
	if isAdmin {
		t.Fatal("expected non-admin before elevation")
	}

	roles["u-1"] = true
	handler.ServeHTTP(httptest.NewRecorder(), sessionRequest(t, sm, "u-1"))
	if !isAdmin {
		t.Error("expected admin after elevation without signing in again")
	}
}

func TestLoadIdentity_DeletedUser(t *testing.T) {
	sm := scs.New()
	var called bool
	handler := LoadIdentity(sm, fakeUsers{}, fakeRoles{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, sessionRequest(t, sm, "gone"))

	if called {
		t.Error("stale session reached the handler")
	}
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != AuthPath {
		t.Errorf("got %d %q, want redirect to %s", rr.Code, rr.Header().Get("Location"), AuthPath)
	}
}

func TestOptionalIdentity_DeletedUser(t *testing.T) {
	sm := scs.New()
	var called bool
	handler := OptionalIdentity(sm, fakeUsers{}, fakeRoles{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if GetActor(r).Authenticated() {
			t.Error("expected anonymous actor")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), sessionRequest(t, sm, "gone"))
	if !called {
		t.Error("optional identity must not block the request")
	}
}

func TestRequestPath(t *testing.T) {
	var path string
	handler := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = logging.PathFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sections/events?x=1", nil))
	if path != "/sections/events" {
		t.Errorf("path = %q, want /sections/events", path)
	}
}
