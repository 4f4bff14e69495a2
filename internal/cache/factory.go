// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	DefaultTTL      time.Duration
	MaxSize         int // memory backend only
	CleanupInterval time.Duration
}

// New returns a Redis cache when RedisURL is set and reachable, and an
// in-memory cache otherwise. A Redis connection failure is logged and the
// memory backend used instead, so the site never depends on Redis being up.
func New(cfg Config, logger *slog.Logger) Cache {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}

		rc, err := NewRedisCache(opts)
		if err == nil {
			logger.Info("using redis cache", "prefix", opts.Prefix)
			return rc
		}
		logger.Warn("redis unavailable, falling back to memory cache", "error", err)
	}

	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cleanup,
	})
}
