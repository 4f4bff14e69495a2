// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/olegiv/artist-site/internal/cache"
	"github.com/olegiv/artist-site/internal/demo"
	"github.com/olegiv/artist-site/internal/metrics"
	"github.com/olegiv/artist-site/internal/render"
	"github.com/olegiv/artist-site/internal/scheduler"
	"github.com/olegiv/artist-site/internal/service"
	"github.com/olegiv/artist-site/internal/session"
	"github.com/olegiv/artist-site/internal/site"
	"github.com/olegiv/artist-site/internal/store"
	"github.com/olegiv/artist-site/web"
)

func runServe(ctx context.Context) error {
	cfg, logger, err := load()
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	loc := cfg.Location()

	if cfg.DemoMode {
		if _, err := demo.ResetIfNeeded(cfg.DBPath, filepath.Dir(cfg.DBPath), time.Now()); err != nil {
			return fmt.Errorf("demo reset: %w", err)
		}
	}

	a, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()
	db := a.db

	if cfg.IsDevelopment() || cfg.DemoMode {
		if err := store.Seed(ctx, db, time.Now().In(loc)); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	ttl := time.Duration(cfg.CacheTTL) * time.Second
	c := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      ttl,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("error closing cache", "error", err)
		}
	}()

	m := metrics.New()

	profile, err := site.Load(cfg.ProfilePath)
	if err != nil {
		return fmt.Errorf("loading site profile: %w", err)
	}

	public := service.NewPublicService(db, c, ttl, loc, logger)
	visits := service.NewVisitCounter(db, c, ttl, m, logger)
	defer visits.Wait()

	svc := services{
		public:  public,
		visits:  visits,
		content: service.NewContentService(db, logger, service.WithSectionInvalidator(public), service.WithMutationObserver(m)),
		contact: service.NewContactService(db, logger),
		users:   service.NewIdentity(db, logger),
		roles:   service.NewRoleResolver(db, logger),
		elevate: service.NewElevation(db, cfg.AdminSetupToken, logger),
	}

	sm := session.New(db, cfg.IsDevelopment())

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: sm,
		Printer:        site.NewPrinter(profile.Locale),
		Location:       loc,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	sched := scheduler.New(visits, public, loc, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	r := newRouter(routerDeps{
		cfg:      cfg,
		db:       db,
		sm:       sm,
		renderer: renderer,
		profile:  profile,
		metrics:  m,
		svc:      svc,
		logger:   logger,
		version:  versionInfo().Short(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo().Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
