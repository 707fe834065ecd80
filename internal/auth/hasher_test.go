// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/parley-chat/parley/internal/auth"
	"github.com/parley-chat/parley/pkg/errutil"
)

func TestArgon2idHasher_Hash(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	t.Run("produces valid hash", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	})

	t.Run("same password produces different hashes (salt)", func(t *testing.T) {
		hash1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		hash2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_EMPTY_PASSWORD")
	})
}

func TestArgon2idHasher_Verify(t *testing.T) {
	hasher := auth.NewArgon2idHasher()

	t.Run("correct password verifies", func(t *testing.T) {
		hash, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("correctpassword", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("incorrect password fails", func(t *testing.T) {
		hash, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("wrongpassword", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	malformed := []struct {
		name     string
		hash     string
		contains string
	}{
		{name: "invalid hash format", hash: "not-a-valid-hash"},
		{name: "wrong algorithm", hash: "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA", contains: "unsupported hash algorithm"},
		{name: "invalid version format", hash: "$argon2id$vXX$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{name: "unsupported version", hash: "$argon2id$v=16$m=65536,t=1,p=4$c2FsdA$aGFzaA", contains: "unsupported argon2 version"},
		{name: "invalid parameters format", hash: "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{name: "invalid salt base64", hash: "$argon2id$v=19$m=65536,t=1,p=4$!!!invalid!!!$aGFzaA"},
		{name: "invalid hash base64", hash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!invalid!!!"},
		{name: "threads overflow", hash: "$argon2id$v=19$m=65536,t=1,p=256$c2FsdA$aGFzaA", contains: "threads value"},
		{name: "zero iterations", hash: "$argon2id$v=19$m=65536,t=0,p=4$c2FsdA$aGFzaA", contains: "iterations"},
	}
	for _, tt := range malformed {
		t.Run(tt.name+" returns error", func(t *testing.T) {
			ok, err := hasher.Verify("password", tt.hash)
			require.Error(t, err)
			assert.False(t, ok)
			errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestBcryptHasher(t *testing.T) {
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	t.Run("round trip", func(t *testing.T) {
		hash, err := hasher.Hash("password")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"))

		ok, err := hasher.Verify("password", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("mismatch is not an error", func(t *testing.T) {
		hash, err := hasher.Hash("password")
		require.NoError(t, err)

		ok, err := hasher.Verify("wrongpass", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		errutil.AssertErrorCode(t, err, "AUTH_EMPTY_PASSWORD")
	})

	t.Run("rejects passwords bcrypt would truncate", func(t *testing.T) {
		_, err := hasher.Hash(strings.Repeat("a", 73))
		errutil.AssertErrorCode(t, err, "AUTH_PASSWORD_TOO_LONG")
	})

	t.Run("overlong password never matches", func(t *testing.T) {
		hash, err := hasher.Hash(strings.Repeat("a", 72))
		require.NoError(t, err)

		ok, err := hasher.Verify(strings.Repeat("a", 73), hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed hash is an engine error", func(t *testing.T) {
		_, err := hasher.Verify("password", "$2a$10$short")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
	})

	t.Run("out of range cost falls back to default", func(t *testing.T) {
		hash, err := auth.NewBcryptHasher(99).Hash("pw")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	})
}

func TestMultiHasher(t *testing.T) {
	bcryptHash, err := auth.NewBcryptHasher(bcrypt.MinCost).Hash("password")
	require.NoError(t, err)
	argonHash, err := auth.NewArgon2idHasher().Hash("password")
	require.NoError(t, err)

	for _, primary := range []auth.HashAlgorithm{auth.HashBcrypt, auth.HashArgon2id} {
		t.Run(string(primary), func(t *testing.T) {
			hasher, err := auth.NewMultiHasher(primary, bcrypt.MinCost)
			require.NoError(t, err)
			assert.Equal(t, primary, hasher.Primary())

			fresh, err := hasher.Hash("password")
			require.NoError(t, err)
			algorithm, ok := auth.DetectHashAlgorithm(fresh)
			require.True(t, ok)
			assert.Equal(t, primary, algorithm)

			for _, stored := range []string{bcryptHash, argonHash, fresh} {
				ok, err := hasher.Verify("password", stored)
				require.NoError(t, err)
				assert.True(t, ok)

				ok, err = hasher.Verify("wrongpass", stored)
				require.NoError(t, err)
				assert.False(t, ok)
			}
		})
	}

	t.Run("unknown prefix is an engine error", func(t *testing.T) {
		hasher, err := auth.NewMultiHasher(auth.HashBcrypt, bcrypt.MinCost)
		require.NoError(t, err)

		_, err = hasher.Verify("password", "$md5$abc")
		errutil.AssertErrorCode(t, err, "AUTH_INVALID_HASH")
	})

	t.Run("rejects unknown primary", func(t *testing.T) {
		_, err := auth.NewMultiHasher("scrypt", bcrypt.MinCost)
		errutil.AssertErrorCode(t, err, "AUTH_UNKNOWN_HASH_ALGORITHM")
	})
}

func TestParseHashAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    auth.HashAlgorithm
		wantErr bool
	}{
		{in: "bcrypt", want: auth.HashBcrypt},
		{in: " Argon2id ", want: auth.HashArgon2id},
		{in: "sha1", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := auth.ParseHashAlgorithm(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectHashAlgorithm(t *testing.T) {
	tests := []struct {
		hash string
		want auth.HashAlgorithm
		ok   bool
	}{
		{hash: "$2a$10$xyz", want: auth.HashBcrypt, ok: true},
		{hash: "$2b$10$xyz", want: auth.HashBcrypt, ok: true},
		{hash: "$2y$10$xyz", want: auth.HashBcrypt, ok: true},
		{hash: "$argon2id$v=19$...", want: auth.HashArgon2id, ok: true},
		{hash: "$argon2i$v=19$...", ok: false},
		{hash: "plaintext", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.hash, func(t *testing.T) {
			got, ok := auth.DetectHashAlgorithm(tt.hash)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
