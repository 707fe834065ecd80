// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

// Package errutil holds helpers for logging and asserting oops errors.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level with its oops code and context.
func LogError(logger *slog.Logger, msg string, err error) {
	LogErrorContext(context.Background(), logger, slog.LevelError, msg, err)
}

// LogErrorContext logs err at level. For oops errors the code and merged
// context are emitted as separate attributes; other errors log their string.
func LogErrorContext(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, err error, attrs ...any) {
	logger.Log(ctx, level, msg, append(attrs, Attrs(err)...)...)
}

// Attrs returns the slog key/value pairs describing err.
func Attrs(err error) []any {
	if err == nil {
		return nil
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []any{"error", err.Error()}
	}
	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != nil && code != "" {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	return attrs
}
