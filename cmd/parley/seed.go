// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/parley-chat/parley/internal/auth"
)

// seedFile is the YAML layout accepted by serve --seed.
//
//	users:
//	  - username: admin
//	    uid: 0
//	    password_hash: "$2a$10$..."
type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	Username     string `yaml:"username"`
	UID          uint64 `yaml:"uid"`
	PasswordHash string `yaml:"password_hash"`
}

const seedCheckPassword = "seed-hash-check"

// loadSeedFile parses and validates every entry before anything is inserted.
func loadSeedFile(path string) ([]*auth.Credential, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, oops.Code("SEED_READ_FAILED").With("path", path).Wrap(err)
	}

	var doc seedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.Code("SEED_INVALID").With("path", path).Wrap(err)
	}

	// Verifying a throwaway password parses the whole hash, so a malformed
	// salt or digest is caught here rather than on the first login.
	checker, err := auth.NewMultiHasher(auth.HashBcrypt, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	creds := make([]*auth.Credential, 0, len(doc.Users))
	for i, u := range doc.Users {
		if _, ok := auth.DetectHashAlgorithm(u.PasswordHash); !ok {
			return nil, oops.Code("SEED_INVALID").
				With("path", path).
				With("entry", i).
				Errorf("entry %d (%q): password_hash is not a bcrypt or argon2id hash", i, u.Username)
		}
		if _, err := checker.Verify(seedCheckPassword, u.PasswordHash); err != nil {
			return nil, oops.Code("SEED_INVALID").
				With("path", path).
				With("entry", i).
				Errorf("entry %d (%q): password_hash is malformed: %v", i, u.Username, err)
		}
		cred, err := auth.NewCredential(u.Username, u.PasswordHash, auth.UserID(u.UID))
		if err != nil {
			return nil, oops.Code("SEED_INVALID").With("path", path).With("entry", i).Wrap(err)
		}
		creds = append(creds, cred)
	}
	return creds, nil
}

// seedCredentials inserts creds, leaving usernames that already exist
// untouched. It returns how many were inserted.
func seedCredentials(ctx context.Context, store auth.CredentialStore, creds []*auth.Credential) (int, error) {
	inserted := 0
	for _, cred := range creds {
		err := store.InsertCredential(ctx, cred)
		if errors.Is(err, auth.ErrUsernameTaken) {
			slog.InfoContext(ctx, "seed user already present", "username", cred.Username)
			continue
		}
		if err != nil {
			return inserted, oops.With("operation", "seed credential").With("username", cred.Username).Wrap(err)
		}
		inserted++
	}
	return inserted, nil
}
