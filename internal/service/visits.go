// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"github.com/olegiv/artist-site/internal/cache"
	"github.com/olegiv/artist-site/internal/store"
)

const visitTotalKey = "visits:total"

// VisitObserver is told whether each visit write succeeded.
type VisitObserver interface {
	ObserveVisit(ok bool)
}

// VisitCounter logs page views and serves the running total.
//
// Record is fire-and-forget: the write runs on its own goroutine with its own
// timeout, and a failed write is logged and dropped. Visits are never retried
// and never hold up a page.
type VisitCounter struct {
	queries  *store.Queries
	cache    cache.Cache
	ttl      time.Duration
	timeout  time.Duration
	observer VisitObserver
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewVisitCounter creates a VisitCounter. The total is cached for ttl.
func NewVisitCounter(db store.DBTX, c cache.Cache, ttl time.Duration, observer VisitObserver, logger *slog.Logger) *VisitCounter {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisitCounter{
		queries:  store.New(db),
		cache:    c,
		ttl:      ttl,
		timeout:  5 * time.Second,
		observer: observer,
		logger:   logger,
	}
}

// Record appends a visit for path in the background.
func (v *VisitCounter) Record(path, userAgent string) {
	device := DeviceClass(userAgent)
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
		defer cancel()

		err := v.queries.CreateVisit(ctx, store.CreateVisitParams{
			ID:        uuid.NewString(),
			Page:      path,
			Device:    device,
			VisitedAt: time.Now().UTC(),
		})
		if v.observer != nil {
			v.observer.ObserveVisit(err == nil)
		}
		if err != nil {
			v.logger.Warn("visit not recorded", "page", path, "error", err)
		}
	}()
}

// Wait blocks until in-flight Record calls have finished.
func (v *VisitCounter) Wait() {
	v.wg.Wait()
}

// Count returns the total number of visits. ok is false when the total
// could not be read; callers then show nothing.
func (v *VisitCounter) Count(ctx context.Context) (n int64, ok bool) {
	if v.cache != nil {
		if b, err := v.cache.Get(ctx, visitTotalKey); err == nil {
			if n, err := strconv.ParseInt(string(b), 10, 64); err == nil {
				return n, true
			}
		}
	}

	n, err := v.Refresh(ctx)
	if err != nil {
		v.logger.WarnContext(ctx, "visit count unavailable", "error", err)
		return 0, false
	}
	return n, true
}

// Refresh reads the total from the database and stores it in the cache.
func (v *VisitCounter) Refresh(ctx context.Context) (int64, error) {
	n, err := v.queries.CountVisits(ctx)
	if err != nil {
		return 0, err
	}
	if v.cache != nil {
		_ = v.cache.Set(ctx, visitTotalKey, []byte(strconv.FormatInt(n, 10)), v.ttl)
	}
	return n, nil
}

// DeviceClass buckets a User-Agent header into bot, mobile, tablet, desktop
// or unknown.
func DeviceClass(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}
	ua := useragent.Parse(userAgent)
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	default:
		return "unknown"
	}
}
