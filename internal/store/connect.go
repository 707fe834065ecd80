// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

// Package store owns the PostgreSQL connection pool and the credential schema.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Retry bounds for the startup connection.
const (
	connectBaseDelay = 250 * time.Millisecond
	connectMaxDelay  = 5 * time.Second
)

// pinger is the part of *pgxpool.Pool Connect needs to probe readiness.
type pinger interface {
	Ping(ctx context.Context) error
	Close()
}

// Connect opens a pgx pool for databaseURL and pings it, retrying with
// exponential backoff until timeout elapses. A DSN that does not parse fails
// immediately.
func Connect(ctx context.Context, databaseURL string, timeout time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").With("operation", "parse database url").Wrap(err)
	}

	var pool *pgxpool.Pool
	err = connectWithRetry(ctx, timeout, func(ctx context.Context) (pinger, error) {
		p, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		pool = p
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// connectWithRetry calls open and pings the result until it succeeds or the
// retry window closes. Failed handles are closed before the next attempt.
func connectWithRetry(ctx context.Context, timeout time.Duration, open func(context.Context) (pinger, error)) error {
	backoff := retry.NewExponential(connectBaseDelay)
	backoff = retry.WithCappedDuration(connectMaxDelay, backoff)
	backoff = retry.WithMaxDuration(timeout, backoff)

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		p, err := open(ctx)
		if err != nil {
			slog.WarnContext(ctx, "database connect failed, retrying", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			slog.WarnContext(ctx, "database ping failed, retrying", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").
			With("attempts", attempt).
			With("timeout", timeout.String()).
			Wrap(err)
	}
	return nil
}
