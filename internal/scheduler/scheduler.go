// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs of the site.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	// VisitRefreshSpec refreshes the cached visit total every minute.
	VisitRefreshSpec = "* * * * *"
	// SectionRolloverSpec purges public sections at local midnight so the
	// events agenda drops yesterday's shows.
	SectionRolloverSpec = "0 0 * * *"
)

// VisitRefresher recomputes the cached visit total.
type VisitRefresher interface {
	Refresh(ctx context.Context) (int64, error)
}

// SectionPurger drops every cached public section.
type SectionPurger interface {
	InvalidateAll(ctx context.Context) error
}

// Scheduler handles the cron jobs.
type Scheduler struct {
	cron    *cron.Cron
	visits  VisitRefresher
	purger  SectionPurger
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a scheduler whose specs are evaluated in loc.
func New(visits VisitRefresher, purger SectionPurger, loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		visits:  visits,
		purger:  purger,
		timeout: 30 * time.Second,
		logger:  logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.visits != nil {
		if _, err := s.cron.AddFunc(VisitRefreshSpec, s.refreshVisits); err != nil {
			return err
		}
	}
	if s.purger != nil {
		if _, err := s.cron.AddFunc(SectionRolloverSpec, s.rolloverSections); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) refreshVisits() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.visits.Refresh(ctx)
	if err != nil {
		s.logger.Warn("visit total refresh failed", "error", err)
		return
	}
	s.logger.Debug("visit total refreshed", "visits", n)
}

func (s *Scheduler) rolloverSections() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.purger.InvalidateAll(ctx); err != nil {
		s.logger.Warn("section rollover failed", "error", err)
		return
	}
	s.logger.Info("public sections purged for the new day")
}
