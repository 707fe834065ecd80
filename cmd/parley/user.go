// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package main

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/parley-chat/parley/internal/auth"
	"github.com/parley-chat/parley/internal/auth/postgres"
	"github.com/parley-chat/parley/internal/config"
)

// NewUserCmd creates the user command group.
func NewUserCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage stored credentials",
	}
	cmd.AddCommand(newUserAddCmd(opts))
	cmd.AddCommand(newUserHashCmd(opts))
	return cmd
}

func newUserAddCmd(opts *rootOptions) *cobra.Command {
	var (
		username string
		uid      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert a credential; the password is read from stdin",
		Long: `Insert a credential into the PostgreSQL store. The password is read
from the first line of standard input and hashed with auth.hash_algorithm.

  echo -n 'password' | parley user add --username admin --uid 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return oops.Code("USER_ADD_UNSUPPORTED").Errorf("user add needs the postgres driver; the memory store does not outlive the process")
			}
			if cfg.Database.URL == "" {
				return oops.Code("CONFIG_INVALID").Errorf("database.url is required (set PARLEY_DATABASE_URL or --database-url)")
			}

			id, err := auth.ParseUserID(uid)
			if err != nil {
				return err
			}
			hash, err := hashStdin(cmd, cfg)
			if err != nil {
				return err
			}
			cred, err := auth.NewCredential(username, hash, id)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := opts.deps.Connect(ctx, cfg.Database.URL, cfg.Database.ConnectTimeout)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.NewCredentialRepository(pool).InsertCredential(ctx, cred); err != nil {
				return err
			}
			cmd.Printf("Added user %q with id %s\n", cred.Username, cred.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username (case-sensitive)")
	cmd.Flags().StringVar(&uid, "uid", "", "numeric user id")
	_ = cmd.MarkFlagRequired("username") //nolint:errcheck // flag is registered above
	_ = cmd.MarkFlagRequired("uid")      //nolint:errcheck // flag is registered above
	return cmd
}

func newUserHashCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Print the hash of a password read from stdin",
		Long: `Print the hash of the password on the first line of standard input,
using auth.hash_algorithm. The output can be used in a serve --seed file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			hash, err := hashStdin(cmd, cfg)
			if err != nil {
				return err
			}
			cmd.Println(hash)
			return nil
		},
	}
}

// hashStdin reads one password line from the command's stdin and hashes it.
func hashStdin(cmd *cobra.Command, cfg *config.Config) (string, error) {
	password, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	hasher, err := auth.NewMultiHasher(auth.HashAlgorithm(cfg.Auth.HashAlgorithm), cfg.Auth.BcryptCost)
	if err != nil {
		return "", err
	}
	return hasher.Hash(password)
}

// readPassword returns the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", oops.Code("PASSWORD_READ_FAILED").Wrap(err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", auth.ErrEmptyPassword
	}
	return password, nil
}
