// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

// Package memstore provides an in-memory auth.CredentialStore for tests and
// single-process development servers.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/parley-chat/parley/internal/auth"
)

// Store is a map-backed credential store. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	byUsername map[string]auth.Credential
	userIDs    map[auth.UserID]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		byUsername: make(map[string]auth.Credential),
		userIDs:    make(map[auth.UserID]string),
	}
}

// LookupByUsername returns a copy of the credential stored for username.
func (s *Store) LookupByUsername(ctx context.Context, username string) (*auth.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, oops.Code("CREDENTIAL_LOOKUP_FAILED").With("username", username).Wrap(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	cred, ok := s.byUsername[username]
	if !ok {
		return nil, oops.Code("CREDENTIAL_NOT_FOUND").With("username", username).Wrap(auth.ErrNotFound)
	}
	return &cred, nil
}

// InsertCredential stores cred, rejecting duplicate usernames and user IDs.
func (s *Store) InsertCredential(ctx context.Context, cred *auth.Credential) error {
	if err := ctx.Err(); err != nil {
		return oops.Code("CREDENTIAL_INSERT_FAILED").With("username", cred.Username).Wrap(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[cred.Username]; exists {
		return oops.Code("AUTH_USERNAME_TAKEN").With("username", cred.Username).Wrap(auth.ErrUsernameTaken)
	}
	if _, exists := s.userIDs[cred.UserID]; exists {
		return oops.Code("AUTH_USER_ID_TAKEN").With("user_id", cred.UserID.String()).Wrap(auth.ErrUserIDTaken)
	}

	stored := *cred
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.byUsername[stored.Username] = stored
	s.userIDs[stored.UserID] = stored.Username
	return nil
}

// Len returns the number of stored credentials.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUsername)
}

var _ auth.CredentialStore = (*Store)(nil)
