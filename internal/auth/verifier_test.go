// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/parley-chat/parley/internal/auth"
	"github.com/parley-chat/parley/internal/auth/mocks"
	"github.com/parley-chat/parley/pkg/errutil"
)

func TestNewCredentialVerifier_NilDependencies(t *testing.T) {
	tests := []struct {
		name        string
		store       auth.CredentialStore
		hasher      auth.PasswordHasher
		expectError string
	}{
		{
			name:        "nil store",
			hasher:      mocks.NewMockPasswordHasher(t),
			expectError: "credential store is required",
		},
		{
			name:        "nil hasher",
			store:       mocks.NewMockCredentialStore(t),
			expectError: "password hasher is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := auth.NewCredentialVerifier(tt.store, tt.hasher)
			require.Error(t, err)
			assert.Nil(t, v)
			assert.Contains(t, err.Error(), tt.expectError)
			errutil.AssertErrorCode(t, err, "AUTH_INVALID_CONFIG")
		})
	}
}

const dummyHash = "dummy-hash"

// newVerifier builds a verifier whose construction-time dummy hash is
// dummyHash.
func newVerifier(t *testing.T, store *mocks.MockCredentialStore, hasher *mocks.MockPasswordHasher) *auth.CredentialVerifier {
	t.Helper()
	hasher.EXPECT().Hash(mock.AnythingOfType("string")).Return(dummyHash, nil).Once()
	v, err := auth.NewCredentialVerifier(store, hasher)
	require.NoError(t, err)
	return v
}

func TestNewCredentialVerifier_HashFailure(t *testing.T) {
	hasher := mocks.NewMockPasswordHasher(t)
	hasher.EXPECT().Hash(mock.Anything).Return("", errors.New("engine down"))

	v, err := auth.NewCredentialVerifier(mocks.NewMockCredentialStore(t), hasher)
	require.Error(t, err)
	assert.Nil(t, v)
	errutil.AssertErrorCode(t, err, "AUTH_DUMMY_HASH_FAILED")
}

func TestNewCredentialVerifier_HashesRandomPassword(t *testing.T) {
	var passwords []string
	hasher := mocks.NewMockPasswordHasher(t)
	hasher.EXPECT().Hash(mock.Anything).
		Run(func(password string) { passwords = append(passwords, password) }).
		Return(dummyHash, nil).Times(2)

	for range 2 {
		_, err := auth.NewCredentialVerifier(mocks.NewMockCredentialStore(t), hasher)
		require.NoError(t, err)
	}
	require.Len(t, passwords, 2)
	assert.NotEmpty(t, passwords[0])
	assert.LessOrEqual(t, len(passwords[0]), 72)
	assert.NotEqual(t, passwords[0], passwords[1])
}

func TestCredentialVerifier_Verify(t *testing.T) {
	ctx := context.Background()
	admin := &auth.Credential{Username: "admin", PasswordHash: "stored-hash", UserID: 0}

	t.Run("matching password returns the user id", func(t *testing.T) {
		store := mocks.NewMockCredentialStore(t)
		hasher := mocks.NewMockPasswordHasher(t)
		cred := &auth.Credential{Username: "alice", PasswordHash: "h", UserID: 42}

		store.EXPECT().LookupByUsername(mock.Anything, "alice").Return(cred, nil).Once()
		hasher.EXPECT().Verify("secret", "h").Return(true, nil).Once()

		v := newVerifier(t, store, hasher)

		id, err := v.Verify(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, auth.UserID(42), id)
	})

	t.Run("wrong password is IncorrectPassword", func(t *testing.T) {
		store := mocks.NewMockCredentialStore(t)
		hasher := mocks.NewMockPasswordHasher(t)

		store.EXPECT().LookupByUsername(mock.Anything, "admin").Return(admin, nil)
		hasher.EXPECT().Verify("wrongpass", "stored-hash").Return(false, nil)

		v := newVerifier(t, store, hasher)

		_, err := v.Verify(ctx, "admin", "wrongpass")
		require.Error(t, err)
		assert.Equal(t, auth.KindIncorrectPassword, auth.KindOf(err))
		assert.ErrorIs(t, err, auth.KindIncorrectPassword)
		errutil.AssertErrorCode(t, err, "AUTH_INCORRECT_PASSWORD")
		errutil.AssertErrorContext(t, err, "username", "admin")
	})

	t.Run("unknown user still runs a hash verification", func(t *testing.T) {
		store := mocks.NewMockCredentialStore(t)
		hasher := mocks.NewMockPasswordHasher(t)

		store.EXPECT().LookupByUsername(mock.Anything, "ghost").
			Return(nil, fmt.Errorf("lookup: %w", auth.ErrNotFound))
		hasher.EXPECT().Verify("pw", dummyHash).Return(false, nil).Once()

		v := newVerifier(t, store, hasher)

		_, err := v.Verify(ctx, "ghost", "pw")
		require.Error(t, err)
		assert.Equal(t, auth.KindUserNotFound, auth.KindOf(err))
		errutil.AssertErrorCode(t, err, "AUTH_USER_NOT_FOUND")
	})

	t.Run("dummy verification errors do not leak", func(t *testing.T) {
		store := mocks.NewMockCredentialStore(t)
		hasher := mocks.NewMockPasswordHasher(t)

		store.EXPECT().LookupByUsername(mock.Anything, "ghost").Return(nil, auth.ErrNotFound)
		hasher.EXPECT().Verify("pw", dummyHash).Return(false, errors.New("engine down"))

		v := newVerifier(t, store, hasher)

		_, err := v.Verify(ctx, "ghost", "pw")
		assert.Equal(t, auth.KindUserNotFound, auth.KindOf(err))
	})

	t.Run("store failure is StoreUnavailable and skips hashing", func(t *testing.T) {
		store := mocks.NewMockCredentialStore(t)
		hasher := mocks.NewMockPasswordHasher(t)
		cause := errors.New("connection refused")

		store.EXPECT().LookupByUsername(mock.Anything, "admin").Return(nil, cause)

		v := newVerifier(t, store, hasher)

		_, err := v.Verify(ctx, "admin", "password")
		require.Error(t, err)
		assert.Equal(t, auth.KindStoreUnavailable, auth.KindOf(err))
		assert.ErrorIs(t, err, cause)
		errutil.AssertErrorContext(t, err, "operation", "lookup credential")
		hasher.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("hash engine failure is HashEngineError", func(t *testing.T) {
		store := mocks.NewMockCredentialStore(t)
		hasher := mocks.NewMockPasswordHasher(t)
		cause := errors.New("unsupported parameters")

		store.EXPECT().LookupByUsername(mock.Anything, "admin").Return(admin, nil)
		hasher.EXPECT().Verify("password", "stored-hash").Return(false, cause)

		v := newVerifier(t, store, hasher)

		_, err := v.Verify(ctx, "admin", "password")
		require.Error(t, err)
		assert.Equal(t, auth.KindHashEngineError, auth.KindOf(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("cancelled context surfaces as StoreUnavailable", func(t *testing.T) {
		store := mocks.NewMockCredentialStore(t)
		hasher := mocks.NewMockPasswordHasher(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		store.EXPECT().LookupByUsername(mock.Anything, "admin").
			RunAndReturn(func(ctx context.Context, _ string) (*auth.Credential, error) {
				return nil, ctx.Err()
			})

		v := newVerifier(t, store, hasher)

		_, err := v.Verify(cancelled, "admin", "password")
		assert.Equal(t, auth.KindStoreUnavailable, auth.KindOf(err))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// recordingHasher remembers the last hash passed to Verify.
type recordingHasher struct {
	auth.PasswordHasher
	verified string
}

func (h *recordingHasher) Verify(password, encodedHash string) (bool, error) {
	h.verified = encodedHash
	return h.PasswordHasher.Verify(password, encodedHash)
}

// hashParams returns the part of an encoded hash that fixes its cost: the
// bcrypt version and cost, or the argon2id version and parameters.
func hashParams(t *testing.T, encoded string) string {
	t.Helper()
	parts := strings.Split(encoded, "$")
	switch {
	case strings.HasPrefix(encoded, "$argon2id$"):
		require.Len(t, parts, 6, encoded)
		return strings.Join(parts[1:4], "$")
	default:
		require.GreaterOrEqual(t, len(parts), 4, encoded)
		cost, err := bcrypt.Cost([]byte(encoded))
		require.NoError(t, err)
		return fmt.Sprintf("%s$%d", parts[1], cost)
	}
}

func TestCredentialVerifier_DummyHashMatchesHasherCost(t *testing.T) {
	tests := []struct {
		name       string
		primary    auth.HashAlgorithm
		bcryptCost int
	}{
		{name: "bcrypt minimum cost", primary: auth.HashBcrypt, bcryptCost: bcrypt.MinCost},
		{name: "bcrypt raised cost", primary: auth.HashBcrypt, bcryptCost: bcrypt.MinCost + 2},
		{name: "argon2id", primary: auth.HashArgon2id, bcryptCost: bcrypt.MinCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			multi, err := auth.NewMultiHasher(tt.primary, tt.bcryptCost)
			require.NoError(t, err)
			hasher := &recordingHasher{PasswordHasher: multi}

			store := mocks.NewMockCredentialStore(t)
			store.EXPECT().LookupByUsername(mock.Anything, "ghost").Return(nil, auth.ErrNotFound)

			v, err := auth.NewCredentialVerifier(store, hasher)
			require.NoError(t, err)

			_, err = v.Verify(context.Background(), "ghost", "pw")
			assert.Equal(t, auth.KindUserNotFound, auth.KindOf(err))
			require.NotEmpty(t, hasher.verified)

			ok, err := multi.Verify("pw", hasher.verified)
			require.NoError(t, err)
			assert.False(t, ok)

			own, err := multi.Hash("pw")
			require.NoError(t, err)
			assert.Equal(t, hashParams(t, own), hashParams(t, hasher.verified))
		})
	}
}
