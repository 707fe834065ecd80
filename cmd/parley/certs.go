// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/parley-chat/parley/internal/tls"
	"github.com/parley-chat/parley/internal/xdg"
)

// NewCertsCmd creates the certs command group.
func NewCertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Manage development TLS certificates",
	}
	cmd.AddCommand(newCertsGenerateCmd())
	return cmd
}

func newCertsGenerateCmd() *cobra.Command {
	var (
		dir   string
		hosts []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a development CA and server certificate",
		Long: `Create a self-signed development CA and a server certificate for the chat
API. An existing CA in the target directory is reused so clients that
already trust it keep working. The server pair is always replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				var err error
				if dir, err = xdg.CertsDir(); err != nil {
					return err
				}
			}

			ca, reused, err := loadOrCreateCA(dir)
			if err != nil {
				return err
			}
			server, err := tls.GenerateServerCert(ca, hosts)
			if err != nil {
				return err
			}
			if err := tls.SaveCertificates(dir, ca, server); err != nil {
				return err
			}

			if reused {
				cmd.Println("Reused CA in " + dir)
			} else {
				cmd.Println("Created CA in " + dir)
			}
			cmd.Println("Serve HTTPS with:")
			cmd.Println("  --tls-cert " + filepath.Join(dir, tls.ServerCertFile))
			cmd.Println("  --tls-key " + filepath.Join(dir, tls.ServerKeyFile))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default: XDG_CONFIG_HOME/parley/certs)")
	cmd.Flags().StringSliceVar(&hosts, "host", nil, "DNS name or IP the certificate covers (repeatable; default localhost, 127.0.0.1, ::1)")

	return cmd
}

// loadOrCreateCA returns the CA stored in dir, or a fresh one when dir has
// none.
func loadOrCreateCA(dir string) (*tls.CA, bool, error) {
	_, err := os.Stat(filepath.Join(dir, tls.CACertFile))
	switch {
	case err == nil:
		ca, err := tls.LoadCA(dir)
		return ca, true, err
	case errors.Is(err, fs.ErrNotExist):
		ca, err := tls.GenerateCA()
		return ca, false, err
	default:
		return nil, false, oops.Code("TLS_LOAD_FAILED").With("dir", dir).Wrap(err)
	}
}
