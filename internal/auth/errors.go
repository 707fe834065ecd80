// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package auth

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when inserting a credential whose username already exists.
var ErrUsernameTaken = errors.New("username already taken")

// ErrUserIDTaken is returned when inserting a credential whose user ID is already bound.
var ErrUserIDTaken = errors.New("user id already taken")

// Kind classifies an authentication failure.
// Kind values are comparable sentinels, so errors.Is(err, KindExpired) works
// on any error produced by this package.
type Kind int

// Failure kinds for the credential and token phases.
const (
	KindNone Kind = iota
	KindUserNotFound
	KindIncorrectPassword
	KindHashEngineError
	KindStoreUnavailable
	KindBadSignature
	KindExpired
	KindMalformedToken
)

var kindNames = map[Kind]string{
	KindNone:              "none",
	KindUserNotFound:      "user not found",
	KindIncorrectPassword: "incorrect password",
	KindHashEngineError:   "hash engine error",
	KindStoreUnavailable:  "store unavailable",
	KindBadSignature:      "bad signature",
	KindExpired:           "token expired",
	KindMalformedToken:    "malformed token",
}

var kindCodes = map[Kind]string{
	KindUserNotFound:      "AUTH_USER_NOT_FOUND",
	KindIncorrectPassword: "AUTH_INCORRECT_PASSWORD",
	KindHashEngineError:   "AUTH_HASH_ENGINE_ERROR",
	KindStoreUnavailable:  "AUTH_STORE_UNAVAILABLE",
	KindBadSignature:      "TOKEN_BAD_SIGNATURE",
	KindExpired:           "TOKEN_EXPIRED",
	KindMalformedToken:    "TOKEN_MALFORMED",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error implements error so a Kind can sit in an error chain.
func (k Kind) Error() string {
	return k.String()
}

// Code returns the oops error code used when logging failures of this kind.
func (k Kind) Code() string {
	return kindCodes[k]
}

// IsCredentialFailure reports whether k belongs to the credential phase.
func (k Kind) IsCredentialFailure() bool {
	switch k {
	case KindUserNotFound, KindIncorrectPassword, KindHashEngineError, KindStoreUnavailable:
		return true
	default:
		return false
	}
}

// IsTokenFailure reports whether k belongs to the token phase.
func (k Kind) IsTokenFailure() bool {
	switch k {
	case KindBadSignature, KindExpired, KindMalformedToken:
		return true
	default:
		return false
	}
}

// allKinds is ordered so that the first match in KindOf is the most specific.
var allKinds = []Kind{
	KindStoreUnavailable,
	KindHashEngineError,
	KindUserNotFound,
	KindIncorrectPassword,
	KindExpired,
	KindBadSignature,
	KindMalformedToken,
}

// KindOf returns the failure kind carried by err, or KindNone.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range allKinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return KindNone
}

// failure builds an oops error of the given kind with optional key/value
// context. When cause is non-nil it stays reachable through errors.Is and
// errors.As.
func failure(kind Kind, cause error, kv ...any) error {
	builder := oops.Code(kind.Code()).With("kind", kind.String())
	if len(kv) > 0 {
		builder = builder.With(kv...)
	}
	if cause == nil {
		return builder.Wrap(kind)
	}
	return builder.Wrap(fmt.Errorf("%w: %w", kind, cause))
}
