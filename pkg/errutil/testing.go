// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode fails t unless err carries the oops code. oops reports the
// deepest code on the chain.
func AssertErrorCode(t testing.TB, err error, code string) {
	t.Helper()
	require.Error(t, err, "expected error with code %s", code)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error with code %s, got %T: %v", code, err, err)
	assert.Equal(t, code, oopsErr.Code(), "error: %v", err)
}

// AssertErrorContext fails t unless err's oops context maps key to value.
func AssertErrorContext(t testing.TB, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	ctx := oopsErr.Context()
	got, found := ctx[key]
	require.True(t, found, "context key %q missing; have %v", key, ctx)
	assert.Equal(t, value, got, "context key %q", key)
}
