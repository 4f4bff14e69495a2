// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/artist-site/internal/cache"
	"github.com/olegiv/artist-site/internal/middleware"
	"github.com/olegiv/artist-site/internal/model"
	"github.com/olegiv/artist-site/internal/render"
	"github.com/olegiv/artist-site/internal/service"
	"github.com/olegiv/artist-site/internal/site"
	"github.com/olegiv/artist-site/internal/testutil"
	"github.com/olegiv/artist-site/web"
)

var (
	testAdmin = service.Actor{UserID: "admin-1", Email: "admin@example.com", IsAdmin: true}
	testFan   = service.Actor{UserID: "fan-1", Email: "fan@example.com"}
)

// testEnv wires the real services over a temporary database.
type testEnv struct {
	db        *sql.DB
	sm        *scs.SessionManager
	renderer  *render.Renderer
	profile   *site.Profile
	content   *service.ContentService
	public    *service.PublicService
	visits    *service.VisitCounter
	contact   *service.ContactService
	identity  *service.Identity
	elevation *service.Elevation
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)
	logger := testutil.TestLogger()

	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = mc.Close() })

	sm := testSessionManager(t)

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: sm,
		Location:       time.UTC,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	profile, err := site.Load("")
	if err != nil {
		t.Fatalf("site.Load: %v", err)
	}

	public := service.NewPublicService(db, mc, time.Hour, time.UTC, logger)
	visits := service.NewVisitCounter(db, nil, time.Minute, nil, logger)
	t.Cleanup(visits.Wait)

	return &testEnv{
		db:        db,
		sm:        sm,
		renderer:  renderer,
		profile:   profile,
		content:   service.NewContentService(db, logger, service.WithSectionInvalidator(public)),
		public:    public,
		visits:    visits,
		contact:   service.NewContactService(db, logger),
		identity:  service.NewIdentity(db, logger),
		elevation: service.NewElevation(db, "s3cret-token", logger),
	}
}

func (e *testEnv) frontend() *FrontendHandler {
	return NewFrontendHandler(e.renderer, e.profile, e.public, e.visits, e.contact, testutil.TestLogger())
}

func (e *testEnv) admin() *AdminHandler {
	overview := func(ctx context.Context) (service.Overview, error) {
		return service.BuildOverview(ctx, e.db)
	}
	return NewAdminHandler(e.content, e.contact, overview, e.renderer, testutil.TestLogger())
}

func (e *testEnv) auth() *AuthHandler {
	return NewAuthHandler(e.identity, e.elevation, e.renderer, e.sm, testutil.TestLogger())
}

// create inserts a record as admin.
func (e *testEnv) create(t *testing.T, collection string, fields map[string]string) model.Record {
	t.Helper()
	schema, _ := model.CollectionByName(collection)
	rec, err := e.content.Create(context.Background(), testAdmin, schema, fields)
	if err != nil {
		t.Fatalf("Create %s: %v", collection, err)
	}
	return rec
}

// testSessionManager creates a session manager for testing.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithSession wraps a request with session context.
func requestWithSession(sm *scs.SessionManager, r *http.Request) *http.Request {
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		return r
	}
	return r.WithContext(ctx)
}

// requestAs loads a session and attaches actor.
func requestAs(sm *scs.SessionManager, r *http.Request, actor service.Actor) *http.Request {
	r = requestWithSession(sm, r)
	return r.WithContext(middleware.WithActor(r.Context(), actor))
}

// postForm builds a form POST request.
func postForm(target string, values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

// flashOf returns the flash message stored in the request's session.
func flashOf(sm *scs.SessionManager, r *http.Request) string {
	return sm.GetString(r.Context(), "flash")
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

// assertRedirect checks a 303 to location.
func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	assertStatus(t, w.Code, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Location = %q; want %q", got, location)
	}
}
