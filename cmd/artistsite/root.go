// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/olegiv/artist-site/internal/config"
	"github.com/olegiv/artist-site/internal/logging"
	"github.com/olegiv/artist-site/internal/store"
	"github.com/olegiv/artist-site/internal/version"
)

func versionInfo() version.Info {
	return version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
}

// app holds what every command needs: configuration, logger and database.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
}

// load reads the configuration and sets up logging.
func load() (*config.Config, *slog.Logger, error) {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}
	return cfg, logger, nil
}

// openDB opens the database and applies migrations.
func openDB(cfg *config.Config, logger *slog.Logger) (*app, error) {
	logger.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &app{cfg: cfg, logger: logger, db: db}, nil
}

// open loads the configuration and opens the migrated database. Callers
// close the database.
func open() (*app, error) {
	cfg, logger, err := load()
	if err != nil {
		return nil, err
	}
	return openDB(cfg, logger)
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("error closing database connection", "error", err)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "artistsite",
		Short:         "Promo site and admin panel for an artist",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newElevateCommand())
	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newResetCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
