// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/parley-chat/parley/internal/config"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			cmd.Print(string(out))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := config.Schema()
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate [FILE]",
		Short: "Check a config file and the merged configuration",
		Long: `Check FILE (or --config) against the config schema, then merge every
configuration source and run the same checks serve runs at startup.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.configFile = args[0]
			}
			if opts.configFile != "" {
				data, err := os.ReadFile(opts.configFile)
				if err != nil {
					return oops.Code("CONFIG_READ_FAILED").With("path", opts.configFile).Wrap(err)
				}
				if err := config.ValidateDocument(data); err != nil {
					return err
				}
			}

			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cmd.Println("Configuration is valid")
			return nil
		},
	})

	return cmd
}
