// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/olegiv/artist-site/internal/demo"
	"github.com/olegiv/artist-site/internal/service"
	"github.com/olegiv/artist-site/internal/site"
	"github.com/olegiv/artist-site/internal/store"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			v, err := store.MigrationVersion(a.db)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "database at version %d\n", v)
			return nil
		},
	}
}

func newElevateCommand() *cobra.Command {
	var email, token string

	cmd := &cobra.Command{
		Use:   "elevate",
		Short: "Grant the admin role to a registered account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			if token == "" {
				token = a.cfg.AdminSetupToken
			}
			result, err := service.NewElevation(a.db, a.cfg.AdminSetupToken, a.logger).
				Elevate(cmd.Context(), email, token)
			if err != nil {
				return fmt.Errorf("elevate %s: %s", email, service.Message(err))
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Message())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email of the account to elevate")
	cmd.Flags().StringVar(&token, "token", "", "Admin setup token (defaults to ADMIN_SETUP_TOKEN)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newResetCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the database and reload the sample content",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("reset deletes every record; pass --yes to confirm")
			}
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			if err := demo.Reset(cfg.DBPath, filepath.Dir(cfg.DBPath), time.Now()); err != nil {
				return err
			}

			a, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			defer a.close()

			if err := store.Seed(cmd.Context(), a.db, time.Now().In(cfg.Location())); err != nil {
				return fmt.Errorf("seeding database: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "database reset with sample content")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm deleting all data")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show content, account and visit counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			ov, err := service.BuildOverview(cmd.Context(), a.db)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderOverview(ov, site.NewPrinter("pt-BR")))
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionInfo().String())
			return nil
		},
	}
}

// renderOverview formats the status tables.
func renderOverview(ov service.Overview, pr *site.Printer) string {
	content := table.NewWriter()
	content.SetStyle(table.StyleRounded)
	content.SetTitle("Content")
	content.AppendHeader(table.Row{"Collection", "Active", "Total"})
	for _, c := range ov.Collections {
		content.AppendRow(table.Row{c.Title, pr.Count(c.Active), pr.Count(c.Total)})
	}
	content.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})

	totals := table.NewWriter()
	totals.SetStyle(table.StyleRounded)
	totals.SetTitle("Site")
	totals.AppendRows([]table.Row{
		{"Users", pr.Count(ov.Users)},
		{"Admins", pr.Count(ov.Admins)},
		{"Messages", pr.Count(ov.Messages)},
		{"Visits", pr.Count(ov.Visits)},
	})
	for _, d := range ov.Devices {
		totals.AppendRow(table.Row{"  " + d.Device, pr.Count(d.Count)})
	}
	totals.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	return strings.Join([]string{content.Render(), totals.Render()}, "\n")
}
