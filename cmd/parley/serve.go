// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/parley-chat/parley/internal/api"
	"github.com/parley-chat/parley/internal/auth"
	"github.com/parley-chat/parley/internal/auth/memstore"
	"github.com/parley-chat/parley/internal/auth/postgres"
	"github.com/parley-chat/parley/internal/config"
	"github.com/parley-chat/parley/internal/observability"
	"github.com/parley-chat/parley/internal/tls"
)

const (
	shutdownTimeout  = 5 * time.Second
	readinessTimeout = time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd(opts *rootOptions) *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat API server",
		Long: `Start the chat API server. With the postgres driver it connects to the
database (retrying until database.connect_timeout), applies pending
migrations when database.auto_migrate is set, and serves /chat until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cmd, cfg, seedPath, opts.deps)
		},
	}

	config.BindServeFlags(cmd.Flags())
	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML file of users to insert at startup if absent")

	return cmd
}

// runServe wires the credential store, auth service and servers, then blocks
// until ctx is cancelled or a server fails.
func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config, seedPath string, deps *Deps) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := setupLogging(cmd, cfg)
	if err != nil {
		return err
	}

	var seed []*auth.Credential
	if seedPath != "" {
		if seed, err = loadSeedFile(seedPath); err != nil {
			return err
		}
	}

	logger.Info("starting parley",
		"addr", cfg.Server.Addr,
		"driver", cfg.Database.Driver,
		"hash_algorithm", cfg.Auth.HashAlgorithm)

	credStore, ready, closeStore, err := openStore(ctx, cfg, deps)
	if err != nil {
		return err
	}
	defer closeStore()

	if len(seed) > 0 {
		n, err := seedCredentials(ctx, credStore, seed)
		if err != nil {
			return err
		}
		logger.Info("seeded credentials", "inserted", n, "total", len(seed))
	}

	svc, err := buildAuthService(cfg, credStore)
	if err != nil {
		return err
	}

	apiOpts := api.Options{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
		Version:        version,
	}
	if cfg.Server.TLSEnabled() {
		if apiOpts.TLSConfig, err = tls.ServerConfig(cfg.Server.TLSCert, cfg.Server.TLSKey); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		obsServer ObservabilityServer
		metrics   *observability.Metrics
	)
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, ready)
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
	}

	apiOpts.Metrics = metrics
	apiServer, err := api.NewServer(svc, apiOpts)
	if err != nil {
		stopServer(obsServer, "observability")
		return err
	}
	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopServer(obsServer, "observability")
		return oops.With("operation", "start api server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	cmd.Println("Parley listening on " + apiServer.Addr())
	deps.Ready(apiServer.Addr())

	<-ctx.Done()
	logger.Info("shutting down")

	stopServer(apiServer, "api")
	stopServer(obsServer, "observability")

	logger.Info("shutdown complete")
	return nil
}

// openStore returns the configured credential store, a readiness probe for
// it, and a cleanup function.
func openStore(ctx context.Context, cfg *config.Config, deps *Deps) (auth.CredentialStore, observability.ReadinessChecker, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		slog.Warn("using in-memory credential store; credentials are lost on exit")
		return memstore.New(), func() bool { return true }, func() {}, nil
	}

	pool, err := deps.Connect(ctx, cfg.Database.URL, cfg.Database.ConnectTimeout)
	if err != nil {
		return nil, nil, nil, oops.With("operation", "connect to database").Wrap(err)
	}
	slog.Info("connected to database")

	if cfg.Database.AutoMigrate {
		if err := applyMigrations(cfg.Database.URL, deps); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
	}

	ready := func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), readinessTimeout)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	}
	return postgres.NewCredentialRepository(pool), ready, pool.Close, nil
}

// applyMigrations brings the schema up to date.
func applyMigrations(url string, deps *Deps) error {
	m, err := deps.NewMigrator(url)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			slog.Warn("error closing migrator", "error", closeErr)
		}
	}()

	if err := m.Up(); err != nil {
		return err
	}
	st, err := m.Status()
	if err != nil {
		return err
	}
	slog.Info("database schema current", "version", st.Version)
	return nil
}

// buildAuthService assembles hasher, verifier and token service.
func buildAuthService(cfg *config.Config, credStore auth.CredentialStore) (*auth.Service, error) {
	hasher, err := auth.NewMultiHasher(auth.HashAlgorithm(cfg.Auth.HashAlgorithm), cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	verifier, err := auth.NewCredentialVerifier(credStore, hasher)
	if err != nil {
		return nil, err
	}
	secret, err := auth.NewSigningSecret(cfg.Auth.Secret)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenService(secret)
	if err != nil {
		return nil, err
	}
	return auth.NewService(verifier, tokens)
}

// stoppable is a server with a graceful Stop.
type stoppable interface {
	Stop(ctx context.Context) error
}

func stopServer(s stoppable, name string) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}

// monitorServerErrors cancels the serve context when a server reports a
// failure.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
