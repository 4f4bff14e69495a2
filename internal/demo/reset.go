// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package demo wipes the site database so a public demo starts from the
// sample content every day.
package demo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// timestampFile is the name of the file storing the last reset time.
	timestampFile = ".last_reset"

	// resetInterval is how often the demo data should be refreshed.
	resetInterval = 24 * time.Hour
)

// ResetIfNeeded checks the last reset timestamp in dataDir and deletes the
// database when more than a day has passed. It reports whether a reset
// happened; the caller migrates and seeds the fresh database.
func ResetIfNeeded(dbPath, dataDir string, now time.Time) (bool, error) {
	tsPath := filepath.Join(dataDir, timestampFile)

	data, err := os.ReadFile(tsPath)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading reset timestamp: %w", err)
	}

	if err == nil {
		unixSec, parseErr := strconv.ParseInt(string(data), 10, 64)
		if parseErr == nil {
			lastReset := time.Unix(unixSec, 0)
			if now.Sub(lastReset) < resetInterval {
				slog.Info("demo reset not needed",
					"last_reset", lastReset.UTC().Format(time.RFC3339),
					"next_reset", lastReset.Add(resetInterval).UTC().Format(time.RFC3339),
				)
				return false, nil
			}
		}
	}

	slog.Info("demo reset overdue, deleting database")
	if err := Reset(dbPath, dataDir, now); err != nil {
		return false, err
	}
	return true, nil
}

// Reset deletes the database files (main, WAL, SHM) and records now as the
// last reset time.
func Reset(dbPath, dataDir string, now time.Time) error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", dbPath+suffix, err)
		}
	}
	slog.Info("demo database deleted", "path", dbPath)

	if err := writeTimestamp(dataDir, now); err != nil {
		return fmt.Errorf("writing reset timestamp: %w", err)
	}
	return nil
}

func writeTimestamp(dataDir string, now time.Time) error {
	tsPath := filepath.Join(dataDir, timestampFile)
	data := []byte(strconv.FormatInt(now.UTC().Unix(), 10))
	return os.WriteFile(tsPath, data, 0o644)
}
