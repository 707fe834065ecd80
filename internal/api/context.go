// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package api

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/parley-chat/parley/internal/auth"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// newRequestID returns a fresh ULID string.
func newRequestID() string {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

type requestIDKey struct{}

type userIDKey struct{}

// RequestIDFrom returns the request ID stored by the request ID middleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string) //nolint:errcheck // absent means ""
	return id
}

// UserIDFrom returns the authenticated user ID stored by requireAPIKey.
func UserIDFrom(ctx context.Context) (auth.UserID, bool) {
	id, ok := ctx.Value(userIDKey{}).(auth.UserID)
	return id, ok
}
