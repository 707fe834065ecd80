// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

// Package postgres provides the PostgreSQL-backed auth.CredentialStore.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/parley-chat/parley/internal/auth"
)

// userIDConstraint is the unique constraint on credentials.user_id.
const userIDConstraint = "credentials_user_id_key"

// poolIface is the subset of pgxpool.Pool the repository uses.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CredentialRepository implements auth.CredentialStore using PostgreSQL.
type CredentialRepository struct {
	pool poolIface
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(pool poolIface) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

// LookupByUsername retrieves a credential by exact, case-sensitive username.
func (r *CredentialRepository) LookupByUsername(ctx context.Context, username string) (*auth.Credential, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT username, password_hash, user_id, created_at
		FROM credentials
		WHERE username = $1
	`, username)

	var (
		cred   auth.Credential
		userID int64
	)
	err := row.Scan(&cred.Username, &cred.PasswordHash, &userID, &cred.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("CREDENTIAL_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("CREDENTIAL_LOOKUP_FAILED").
			With("operation", "select credential").
			With("username", username).
			Wrap(err)
	}
	if userID < 0 {
		return nil, oops.Code("CREDENTIAL_LOOKUP_FAILED").
			With("username", username).
			Errorf("stored user id %d is negative", userID)
	}
	cred.UserID = auth.UserID(userID)
	return &cred, nil
}

// InsertCredential stores a new credential.
func (r *CredentialRepository) InsertCredential(ctx context.Context, cred *auth.Credential) error {
	if cred.UserID > auth.MaxUserID {
		return oops.Code("AUTH_INVALID_CREDENTIAL").
			With("user_id", cred.UserID.String()).
			Errorf("user id exceeds %d", uint64(auth.MaxUserID))
	}
	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO credentials (username, password_hash, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, cred.Username, cred.PasswordHash, int64(cred.UserID), createdAt)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if pgErr.ConstraintName == userIDConstraint {
			return oops.Code("AUTH_USER_ID_TAKEN").
				With("user_id", cred.UserID.String()).
				Wrap(errors.Join(auth.ErrUserIDTaken, err))
		}
		return oops.Code("AUTH_USERNAME_TAKEN").
			With("username", cred.Username).
			Wrap(errors.Join(auth.ErrUsernameTaken, err))
	}
	return oops.Code("CREDENTIAL_INSERT_FAILED").
		With("operation", "insert credential").
		With("username", cred.Username).
		Wrap(err)
}

var _ auth.CredentialStore = (*CredentialRepository)(nil)
