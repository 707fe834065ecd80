// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/parley-chat/parley/internal/observability"
	"github.com/parley-chat/parley/internal/store"
)

// Deps contains injectable dependencies for the CLI commands.
// All fields with nil values will use their default implementations.
type Deps struct {
	// Connect opens the database pool.
	// Default: store.Connect
	Connect func(ctx context.Context, url string, timeout time.Duration) (DBPool, error)

	// NewMigrator opens a schema migrator.
	// Default: store.NewMigrator
	NewMigrator func(url string) (Migrator, error)

	// ObservabilityServerFactory creates the metrics and health server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, ready observability.ReadinessChecker) ObservabilityServer

	// Ready is called once the API server is listening. Used by tests.
	Ready func(apiAddr string)
}

// DBPool is the part of *pgxpool.Pool the commands use.
type DBPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Migrator wraps the methods used from store.Migrator.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Status() (store.Status, error)
	Close() error
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// withDefaults returns a copy of d with nil fields filled in.
func (d *Deps) withDefaults() *Deps {
	out := Deps{}
	if d != nil {
		out = *d
	}
	if out.Connect == nil {
		out.Connect = func(ctx context.Context, url string, timeout time.Duration) (DBPool, error) {
			pool, err := store.Connect(ctx, url, timeout)
			if err != nil {
				return nil, err
			}
			return pool, nil
		}
	}
	if out.NewMigrator == nil {
		out.NewMigrator = func(url string) (Migrator, error) {
			m, err := store.NewMigrator(url)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	if out.ObservabilityServerFactory == nil {
		out.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, ready)
		}
	}
	if out.Ready == nil {
		out.Ready = func(string) {}
	}
	return &out
}
