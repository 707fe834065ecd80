// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package api

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parley-chat/parley/internal/auth"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind   auth.Kind
		status int
		level  slog.Level
	}{
		{auth.KindUserNotFound, http.StatusUnauthorized, slog.LevelInfo},
		{auth.KindIncorrectPassword, http.StatusUnauthorized, slog.LevelInfo},
		{auth.KindBadSignature, http.StatusUnauthorized, slog.LevelDebug},
		{auth.KindExpired, http.StatusUnauthorized, slog.LevelDebug},
		{auth.KindMalformedToken, http.StatusUnauthorized, slog.LevelDebug},
		{auth.KindStoreUnavailable, http.StatusInternalServerError, slog.LevelError},
		{auth.KindHashEngineError, http.StatusInternalServerError, slog.LevelError},
		{auth.KindNone, http.StatusInternalServerError, slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			status, level := statusFor(tt.kind)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestErrMissingAPIKey_IsMalformed(t *testing.T) {
	assert.Equal(t, auth.KindMalformedToken, auth.KindOf(errMissingAPIKey))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "user_not_found", outcome(auth.KindUserNotFound))
	assert.Equal(t, "token_expired", outcome(auth.KindExpired))
	assert.Equal(t, "error", outcome(auth.KindNone))
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "unauthorized", publicMessage(http.StatusUnauthorized))
	assert.Equal(t, "bad request", publicMessage(http.StatusBadRequest))
	assert.Equal(t, "internal server error", publicMessage(http.StatusInternalServerError))
}
