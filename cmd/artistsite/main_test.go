// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/artist-site/internal/cache"
	"github.com/olegiv/artist-site/internal/config"
	"github.com/olegiv/artist-site/internal/metrics"
	"github.com/olegiv/artist-site/internal/render"
	"github.com/olegiv/artist-site/internal/service"
	"github.com/olegiv/artist-site/internal/site"
	"github.com/olegiv/artist-site/internal/store"
	"github.com/olegiv/artist-site/internal/testutil"
	"github.com/olegiv/artist-site/web"
)

func TestRenderOverview(t *testing.T) {
	ov := service.Overview{
		Collections: []service.CollectionCount{
			{Name: "events", Title: "Events", Total: 1234, Active: 12},
		},
		Users:    3,
		Admins:   1,
		Messages: 7,
		Visits:   56789,
		Devices:  []store.DeviceCount{{Device: "mobile", Count: 40000}},
	}

	out := renderOverview(ov, site.NewPrinter("pt-BR"))

	for _, want := range []string{"Content", "Events", "1.234", "Site", "Visits", "56.789", "mobile", "40.000"} {
		assert.Contains(t, out, want)
	}
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "elevate", "status", "reset", "version"}, names)

	elevate, _, err := cmd.Find([]string{"elevate"})
	require.NoError(t, err)
	assert.NotNil(t, elevate.Flags().Lookup("email"))
	assert.NotNil(t, elevate.Flags().Lookup("token"))
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db := testutil.TestDB(t)
	logger := testutil.TestLogger()

	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = mc.Close() })

	sm := scs.New()
	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templates, SessionManager: sm, Location: time.UTC, IsDev: true})
	require.NoError(t, err)

	profile, err := site.Load("")
	require.NoError(t, err)

	public := service.NewPublicService(db, mc, time.Hour, time.UTC, logger)
	visits := service.NewVisitCounter(db, mc, time.Minute, nil, logger)
	t.Cleanup(visits.Wait)

	return newRouter(routerDeps{
		cfg:      &config.Config{Env: "development", SessionSecret: strings.Repeat("k", 32)},
		db:       db,
		sm:       sm,
		renderer: renderer,
		profile:  profile,
		metrics:  metrics.New(),
		svc: services{
			public:  public,
			visits:  visits,
			content: service.NewContentService(db, logger, service.WithSectionInvalidator(public)),
			contact: service.NewContactService(db, logger),
			users:   service.NewIdentity(db, logger),
			roles:   service.NewRoleResolver(db, logger),
			elevate: service.NewElevation(db, "", logger),
		},
		logger:  logger,
		version: "test",
	})
}

func TestRouter(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		location string
	}{
		{"home", http.MethodGet, "/", http.StatusOK, ""},
		{"health", http.MethodGet, "/health", http.StatusOK, ""},
		{"static", http.MethodGet, "/static/site.css", http.StatusOK, ""},
		{"metrics requires sign-in", http.MethodGet, "/metrics", http.StatusSeeOther, "/auth"},
		{"auth page", http.MethodGet, "/auth", http.StatusOK, ""},
		{"unknown section", http.MethodGet, "/sections/bogus", http.StatusNotFound, ""},
		{"admin requires sign-in", http.MethodGet, "/admin", http.StatusSeeOther, "/auth"},
		{"collection requires sign-in", http.MethodGet, "/admin/events", http.StatusSeeOther, "/auth"},
		{"trailing slash", http.MethodGet, "/admin/events/", http.StatusMovedPermanently, "/admin/events"},
		{"elevation disabled", http.MethodPost, "/api/setup-admin", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *strings.Reader
			if tt.method == http.MethodPost {
				body = strings.NewReader("not json")
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
		})
	}
}
