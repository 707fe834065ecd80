// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/samber/oops"

	"github.com/parley-chat/parley/internal/auth"
)

// errMissingAPIKey is reported when a protected route is called without a
// key. It classifies as a malformed token.
var errMissingAPIKey = oops.Code("TOKEN_MISSING").Wrapf(auth.KindMalformedToken, "missing %s header", headerAPIKey)

// Public error bodies. They never carry the internal failure kind.
const (
	errUnauthorized = "unauthorized"
	errBadRequest   = "bad request"
	errInternal     = "internal server error"
)

// statusFor maps an auth failure kind to the HTTP status returned to the
// client and the level the failure is logged at.
func statusFor(kind auth.Kind) (int, slog.Level) {
	switch kind {
	case auth.KindUserNotFound, auth.KindIncorrectPassword:
		return http.StatusUnauthorized, slog.LevelInfo
	case auth.KindBadSignature, auth.KindExpired, auth.KindMalformedToken:
		return http.StatusUnauthorized, slog.LevelDebug
	default:
		// StoreUnavailable, HashEngineError and anything unclassified.
		return http.StatusInternalServerError, slog.LevelError
	}
}

// publicMessage is the error body text for status.
func publicMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return errUnauthorized
	case http.StatusBadRequest:
		return errBadRequest
	default:
		return errInternal
	}
}

// outcome is the metrics label for kind.
func outcome(kind auth.Kind) string {
	if kind == auth.KindNone {
		return "error"
	}
	return strings.ReplaceAll(kind.String(), " ", "_")
}
