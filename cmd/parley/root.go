// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/parley-chat/parley/internal/config"
	"github.com/parley-chat/parley/internal/logging"
)

// serviceName is stamped on every log record.
const serviceName = "parley"

// rootOptions holds the persistent flags and dependencies shared by every
// subcommand.
type rootOptions struct {
	configFile string
	envFile    string
	deps       *Deps
}

// NewRootCmd creates the root command for the Parley CLI. deps may be nil.
func NewRootCmd(deps *Deps) *cobra.Command {
	opts := &rootOptions{deps: deps.withDefaults()}

	cmd := &cobra.Command{
		Use:   "parley",
		Short: "Parley - a small RESTful chat server",
		Long: `Parley is a small RESTful chat server. It verifies usernames and
passwords against a hashed credential store and issues short-lived signed
API keys.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/parley/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "dotenv file with PARLEY_* variables")
	config.BindCommonFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))
	cmd.AddCommand(NewUserCmd(opts))
	cmd.AddCommand(NewConfigCmd(opts))
	cmd.AddCommand(NewCertsCmd())

	return cmd
}

// loadConfig merges every configuration source for cmd.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.Sources{
		File:    o.configFile,
		EnvFile: o.envFile,
		Flags:   cmd.Flags(),
	})
}

// setupLogging installs the default logger described by cfg.
func setupLogging(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.SetDefault(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Log.Format,
		Level:   level,
		Writer:  cmd.ErrOrStderr(),
	}), nil
}
