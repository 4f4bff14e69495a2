// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/artist-site/internal/config"
	"github.com/olegiv/artist-site/internal/handler"
	"github.com/olegiv/artist-site/internal/metrics"
	"github.com/olegiv/artist-site/internal/middleware"
	"github.com/olegiv/artist-site/internal/render"
	"github.com/olegiv/artist-site/internal/service"
	"github.com/olegiv/artist-site/internal/site"
	"github.com/olegiv/artist-site/web"
)

// services groups the application services the router hands to handlers.
type services struct {
	public  *service.PublicService
	visits  *service.VisitCounter
	content *service.ContentService
	contact *service.ContactService
	users   *service.Identity
	roles   *service.RoleResolver
	elevate *service.Elevation
}

type routerDeps struct {
	cfg      *config.Config
	db       *sql.DB
	sm       *scs.SessionManager
	renderer *render.Renderer
	profile  *site.Profile
	metrics  *metrics.Metrics
	svc      services
	logger   *slog.Logger
	version  string
}

func newRouter(d routerDeps) http.Handler {
	isDev := d.cfg.IsDevelopment()

	frontendHandler := handler.NewFrontendHandler(d.renderer, d.profile, d.svc.public, d.svc.visits, d.svc.contact, d.logger)
	authHandler := handler.NewAuthHandler(d.svc.users, d.svc.elevate, d.renderer, d.sm, d.logger)
	overview := func(ctx context.Context) (service.Overview, error) {
		return service.BuildOverview(ctx, d.db)
	}
	adminHandler := handler.NewAdminHandler(d.svc.content, d.svc.contact, overview, d.renderer, d.logger)
	healthHandler := handler.NewHealthHandler(d.db, d.version)

	identity := middleware.OptionalIdentity(d.sm, d.svc.users, d.svc.roles)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.RequestPath)
	r.Use(middleware.Metrics(d.metrics))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(isDev)))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(d.sm.LoadAndSave)
	r.Use(middleware.SkipCSRF(handler.RouteSetupAdminAPI))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(d.cfg.SessionSecret))))

	static, err := fs.Sub(web.Static, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}
	r.With(middleware.Auth(d.sm)).Handle("/metrics", d.metrics.Handler())
	r.With(identity).Get(handler.RouteHealth, healthHandler.Health)

	// Public site
	r.Group(func(r chi.Router) {
		r.Use(identity)
		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get(handler.RouteSections, frontendHandler.Section)
		r.Post(handler.RouteContact, frontendHandler.Contact)
	})

	// Auth
	r.Get(handler.RouteAuth, authHandler.Page)
	r.Post(handler.RouteAuthLogin, authHandler.Login)
	r.Post(handler.RouteAuthSignup, authHandler.Signup)
	r.Post(handler.RouteAuthSetup, authHandler.Setup)
	r.Post(handler.RouteAuthLogout, authHandler.Logout)
	r.Post(handler.RouteSetupAdminAPI, authHandler.SetupAdmin)

	// Admin workbench
	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(middleware.Auth(d.sm))
		r.Use(middleware.LoadIdentity(d.sm, d.svc.users, d.svc.roles))

		r.Get("/", adminHandler.Dashboard)

		r.Get(handler.RouteMessages, adminHandler.Messages)
		r.Post(handler.RouteMessages+handler.RouteParamID+handler.RouteSuffixDelete, adminHandler.DeleteMessage)

		r.Route(handler.RouteCollection, func(r chi.Router) {
			r.Get("/", adminHandler.List)
			r.Post("/", adminHandler.Create)
			r.Post(handler.RouteParamID, adminHandler.Update)
			r.Post(handler.RouteParamID+handler.RouteSuffixToggle, adminHandler.Toggle)
			r.Get(handler.RouteParamID+handler.RouteSuffixDelete, adminHandler.ConfirmDelete)
			r.Post(handler.RouteParamID+handler.RouteSuffixDelete, adminHandler.Delete)
		})
	})

	return r
}
