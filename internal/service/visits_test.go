// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/artist-site/internal/cache"
	"github.com/olegiv/artist-site/internal/testutil"
)

type countingVisitObserver struct {
	mu     sync.Mutex
	ok     int
	failed int
}

func (o *countingVisitObserver) ObserveVisit(ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ok {
		o.ok++
	} else {
		o.failed++
	}
}

const (
	iPhoneUA    = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	desktopUA   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	googlebotUA = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestVisitCounter_RecordAndCount(t *testing.T) {
	db := testutil.TestDB(t)
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = mc.Close() }()

	obs := &countingVisitObserver{}
	v := NewVisitCounter(db, mc, time.Minute, obs, testutil.TestLogger())

	v.Record("/", iPhoneUA)
	v.Record("/", desktopUA)
	v.Wait()

	assert.Equal(t, 2, obs.ok)

	n, ok := v.Count(context.Background())
	require.True(t, ok)
	assert.Equal(t, int64(2), n)

	var device string
	require.NoError(t, db.QueryRow(`SELECT device FROM site_visits WHERE device = 'mobile'`).Scan(&device))
}

func TestVisitCounter_CountServedFromCacheUntilRefresh(t *testing.T) {
	db := testutil.TestDB(t)
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = mc.Close() }()
	v := NewVisitCounter(db, mc, time.Minute, nil, testutil.TestLogger())
	ctx := context.Background()

	n, ok := v.Count(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(0), n)

	v.Record("/", desktopUA)
	v.Wait()

	n, _ = v.Count(ctx)
	assert.Equal(t, int64(0), n, "cached total until refreshed")

	n, err := v.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, _ = v.Count(ctx)
	assert.Equal(t, int64(1), n)
}

func TestVisitCounter_FailuresAreSwallowed(t *testing.T) {
	db := testutil.TestDB(t)
	obs := &countingVisitObserver{}
	v := NewVisitCounter(db, nil, time.Minute, obs, testutil.TestLogger())
	require.NoError(t, db.Close())

	v.Record("/", desktopUA)
	v.Wait()
	assert.Equal(t, 1, obs.failed)

	_, ok := v.Count(context.Background())
	assert.False(t, ok)
}

func TestDeviceClass(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"", "unknown"},
		{iPhoneUA, "mobile"},
		{desktopUA, "desktop"},
		{googlebotUA, "bot"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeviceClass(tt.ua), tt.ua)
	}
}
