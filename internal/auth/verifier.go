// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("parley/auth")

// dummyPasswordLen is the random byte count behind the dummy hash. Its
// base64 form stays under bcrypt's 72-byte limit.
const dummyPasswordLen = 32

// CredentialVerifier resolves a username and password to a UserID.
type CredentialVerifier struct {
	store  CredentialStore
	hasher PasswordHasher
	// dummyHash is verified against when a username is unknown so the
	// failure costs the same as a wrong password. It is produced by hasher,
	// so it carries the configured algorithm and cost.
	dummyHash string
}

// NewCredentialVerifier creates a CredentialVerifier. It hashes one random
// password up front, which costs a single hash computation.
func NewCredentialVerifier(store CredentialStore, hasher PasswordHasher) (*CredentialVerifier, error) {
	if store == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("credential store is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("password hasher is required")
	}

	raw := make([]byte, dummyPasswordLen)
	if _, err := rand.Read(raw); err != nil {
		return nil, oops.Code("AUTH_DUMMY_HASH_FAILED").With("operation", "generate dummy password").Wrap(err)
	}
	dummyHash, err := hasher.Hash(base64.RawStdEncoding.EncodeToString(raw))
	if err != nil {
		return nil, oops.Code("AUTH_DUMMY_HASH_FAILED").With("operation", "hash dummy password").Wrap(err)
	}

	return &CredentialVerifier{store: store, hasher: hasher, dummyHash: dummyHash}, nil
}

// Verify checks password against the stored credential for username.
// It performs exactly one store read and never writes.
// Failures carry KindUserNotFound, KindIncorrectPassword, KindHashEngineError
// or KindStoreUnavailable.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (id UserID, err error) {
	ctx, span := tracer.Start(ctx, "auth.verify_credentials",
		trace.WithAttributes(attribute.String("auth.username", username)),
	)
	defer func() { endSpan(span, err) }()

	cred, lookupErr := v.store.LookupByUsername(ctx, username)
	if lookupErr != nil {
		if errors.Is(lookupErr, ErrNotFound) {
			// Result ignored; only the elapsed time matters.
			_, _ = v.hasher.Verify(password, v.dummyHash) //nolint:errcheck // timing only
			return 0, failure(KindUserNotFound, nil, "username", username)
		}
		return 0, failure(KindStoreUnavailable, lookupErr,
			"operation", "lookup credential",
			"username", username,
		)
	}

	ok, verifyErr := v.hasher.Verify(password, cred.PasswordHash)
	if verifyErr != nil {
		return 0, failure(KindHashEngineError, verifyErr, "username", username)
	}
	if !ok {
		return 0, failure(KindIncorrectPassword, nil, "username", username)
	}

	span.SetAttributes(attribute.String("auth.user_id", cred.UserID.String()))
	return cred.UserID, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, KindOf(err).String())
	}
	span.End()
}
