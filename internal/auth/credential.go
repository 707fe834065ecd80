// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package auth

import (
	"context"
	"math"
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/samber/oops"
)

// MaxUsernameLength bounds usernames in bytes.
const MaxUsernameLength = 64

// MaxUserID is the largest identity the credential schema can hold (BIGINT).
const MaxUserID = UserID(math.MaxInt64)

// UserID identifies an authenticated principal. It is assigned at
// registration and never changes.
type UserID uint64

// String returns the decimal form used as the token subject.
func (id UserID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseUserID parses the decimal form produced by String.
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, oops.Code("AUTH_INVALID_USER_ID").With("value", s).Wrap(err)
	}
	return UserID(n), nil
}

// Credential binds a username to a password hash and a UserID.
type Credential struct {
	Username     string
	PasswordHash string
	UserID       UserID
	CreatedAt    time.Time
}

// NewCredential creates a validated Credential.
// The hash is stored as given; callers produce it with a PasswordHasher.
func NewCredential(username, passwordHash string, userID UserID) (*Credential, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_CREDENTIAL").Errorf("password hash cannot be empty")
	}
	if userID > MaxUserID {
		return nil, oops.Code("AUTH_INVALID_CREDENTIAL").
			With("user_id", userID.String()).
			Errorf("user id exceeds %d", uint64(MaxUserID))
	}
	return &Credential{
		Username:     username,
		PasswordHash: passwordHash,
		UserID:       userID,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// ValidateUsername checks a username for registration.
// Usernames are case-sensitive; they must be non-empty valid UTF-8, at most
// MaxUsernameLength bytes, and free of whitespace and control characters.
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("AUTH_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d bytes", MaxUsernameLength)
	}
	if !utf8.ValidString(username) {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username must be valid UTF-8")
	}
	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return oops.Code("AUTH_INVALID_USERNAME").
				Errorf("username cannot contain whitespace or control characters")
		}
	}
	return nil
}

// CredentialStore is the persistence contract the core relies on.
// Implementations must keep usernames unique and serve LookupByUsername from
// an index.
type CredentialStore interface {
	// LookupByUsername returns the credential for an exact username match.
	// Returns an error wrapping ErrNotFound when no credential exists.
	LookupByUsername(ctx context.Context, username string) (*Credential, error)

	// InsertCredential stores a new credential.
	// Returns an error wrapping ErrUsernameTaken or ErrUserIDTaken on conflict.
	InsertCredential(ctx context.Context, cred *Credential) error
}
