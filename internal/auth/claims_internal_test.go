// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaims_RoundTrip(t *testing.T) {
	tests := []Claims{
		{Subject: 0, ExpiresAt: time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC)},
		{Subject: 42, ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Subject: MaxUserID, ExpiresAt: time.Unix(1, 0)},
	}
	for _, want := range tests {
		t.Run(want.Subject.String(), func(t *testing.T) {
			rc := want.registered()
			got, err := claimsFrom(&rc)
			require.NoError(t, err)
			assert.Equal(t, want.Subject, got.Subject)
			assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt), "want %v got %v", want.ExpiresAt, got.ExpiresAt)
		})
	}
}

func TestClaims_RegisteredTruncatesToSeconds(t *testing.T) {
	c := Claims{Subject: 1, ExpiresAt: time.Date(2026, 3, 1, 12, 0, 0, 999, time.UTC)}
	rc := c.registered()
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), rc.ExpiresAt.UTC())
	assert.Equal(t, "1", rc.Subject)
}

func TestClaimsFrom_Rejects(t *testing.T) {
	_, err := claimsFrom(&jwt.RegisteredClaims{Subject: "1"})
	require.Error(t, err)

	_, err = claimsFrom(&jwt.RegisteredClaims{
		Subject:   "-1",
		ExpiresAt: jwt.NewNumericDate(time.Now()),
	})
	require.Error(t, err)
}

func TestClassifyParseError(t *testing.T) {
	assert.Equal(t, KindExpired, classifyParseError(jwt.ErrTokenExpired))
	assert.Equal(t, KindBadSignature, classifyParseError(jwt.ErrTokenSignatureInvalid))
	assert.Equal(t, KindBadSignature, classifyParseError(jwt.ErrTokenUnverifiable))
	assert.Equal(t, KindMalformedToken, classifyParseError(jwt.ErrTokenMalformed))
	assert.Equal(t, KindMalformedToken, classifyParseError(jwt.ErrTokenRequiredClaimMissing))
}
