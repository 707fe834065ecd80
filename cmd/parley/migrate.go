// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/parley-chat/parley/internal/store"
)

// NewMigrateCmd creates the migrate command group.
func NewMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the credential schema",
		Long:  `Apply, roll back or inspect the embedded PostgreSQL migrations.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, opts, func(m Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations applied")
				return printStatus(cmd, m)
			})
		},
	})

	var confirm bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration (drops the credentials table)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return oops.Code("CONFIRMATION_REQUIRED").Errorf("migrate down drops all credentials; pass --yes to confirm")
			}
			return withMigrator(cmd, opts, func(m Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Migrations rolled back")
				return nil
			})
		},
	}
	down.Flags().BoolVar(&confirm, "yes", false, "confirm dropping the schema")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, opts, func(m Migrator) error {
				return printStatus(cmd, m)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force VERSION",
		Short: "Mark VERSION as applied and clear the dirty flag",
		Long: `Mark VERSION as applied without running any SQL. Use this to recover
after a migration failed partway and the schema was repaired by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseForceVersion(args[0])
			if err != nil {
				return err
			}
			return withMigrator(cmd, opts, func(m Migrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				cmd.Printf("Forced schema version %d\n", version)
				return nil
			})
		},
	})

	return cmd
}

// withMigrator opens a migrator for the configured database and closes it
// after fn.
func withMigrator(cmd *cobra.Command, opts *rootOptions, fn func(Migrator) error) (err error) {
	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required (set PARLEY_DATABASE_URL or --database-url)")
	}

	m, err := opts.deps.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(m)
}

// printStatus writes the schema version and pending migrations.
func printStatus(cmd *cobra.Command, m Migrator) error {
	st, err := m.Status()
	if err != nil {
		return err
	}

	cmd.Printf("Current version: %d", st.Version)
	if st.Dirty {
		cmd.Print(" (dirty)")
	}
	cmd.Println()

	if len(st.Pending) == 0 {
		cmd.Println("No pending migrations")
		return nil
	}
	cmd.Println("Pending:")
	for _, v := range st.Pending {
		name, err := store.MigrationName(v)
		if err != nil || name == "" {
			name = fmt.Sprintf("%06d", v)
		}
		cmd.Println("  " + name)
	}
	return nil
}

// parseForceVersion reads the leading integer of s. Negative values are
// passed through so Migrator.Force can reject them.
func parseForceVersion(s string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &version); err != nil {
		return 0, oops.Code("INVALID_VERSION").With("input", s).Wrap(err)
	}
	return version, nil
}
