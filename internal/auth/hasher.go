// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// OWASP-recommended argon2id parameters.
const (
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2SaltLen = 16        // salt length in bytes
	argon2KeyLen  = 32        // output length in bytes
)

// bcryptMaxPasswordLen is the longest input bcrypt hashes without truncation.
const bcryptMaxPasswordLen = 72

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")

// HashAlgorithm names a supported password hashing scheme.
type HashAlgorithm string

// Supported algorithms.
const (
	HashBcrypt   HashAlgorithm = "bcrypt"
	HashArgon2id HashAlgorithm = "argon2id"
)

// ParseHashAlgorithm validates an algorithm name from configuration.
func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	switch HashAlgorithm(strings.ToLower(strings.TrimSpace(name))) {
	case HashBcrypt:
		return HashBcrypt, nil
	case HashArgon2id:
		return HashArgon2id, nil
	default:
		return "", oops.Code("AUTH_UNKNOWN_HASH_ALGORITHM").
			With("algorithm", name).
			Errorf("unknown hash algorithm %q (want bcrypt or argon2id)", name)
	}
}

// PasswordHasher provides password hashing and verification.
type PasswordHasher interface {
	// Hash produces an encoded hash of the password, including salt and parameters.
	Hash(password string) (string, error)

	// Verify checks if the password matches the hash.
	// Returns (true, nil) on match, (false, nil) on mismatch, or error on an
	// unusable hash.
	Verify(password, hash string) (bool, error)
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher. A cost outside bcrypt's range falls
// back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash produces a bcrypt hash of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > bcryptMaxPasswordLen {
		return "", oops.Code("AUTH_PASSWORD_TOO_LONG").
			With("max", bcryptMaxPasswordLen).
			Errorf("password must be at most %d bytes for bcrypt", bcryptMaxPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", oops.Code("AUTH_HASH_FAILED").With("algorithm", HashBcrypt).Wrap(err)
	}
	return string(hash), nil
}

// Verify checks if the password matches the bcrypt hash.
func (h *BcryptHasher) Verify(password, encodedHash string) (bool, error) {
	// Hash refuses such passwords, so they can never have been stored.
	if len(password) > bcryptMaxPasswordLen {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, oops.Code("AUTH_INVALID_HASH").With("algorithm", HashBcrypt).Wrap(err)
	}
}

// Argon2idHasher implements PasswordHasher using argon2id.
type Argon2idHasher struct{}

// NewArgon2idHasher creates a new Argon2idHasher.
func NewArgon2idHasher() *Argon2idHasher {
	return &Argon2idHasher{}
}

// Hash produces an argon2id hash of the password.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// PHC string format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argon2Memory,
		argon2Time,
		argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify checks if the password matches the argon2id hash.
func (h *Argon2idHasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("invalid hash format")
	}
	if parts[1] != string(HashArgon2id) {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("unsupported hash algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if version != argon2.Version {
		return false, oops.Code("AUTH_INVALID_HASH").
			With("version", version).
			Errorf("unsupported argon2 version %d", version)
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if threads == 0 || threads > 255 {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("threads value %d outside 1..255", threads)
	}
	if iterations == 0 {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("iterations must be positive")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	keyLen := len(expected)
	if keyLen == 0 || keyLen > 1<<10 {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("invalid hash key length: %d", keyLen)
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, uint8(threads), uint32(keyLen))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

// MultiHasher hashes with one algorithm and verifies any supported one,
// selected by the prefix of the stored hash.
type MultiHasher struct {
	primary HashAlgorithm
	bcrypt  *BcryptHasher
	argon2  *Argon2idHasher
}

// NewMultiHasher creates a MultiHasher that produces new hashes with primary.
func NewMultiHasher(primary HashAlgorithm, bcryptCost int) (*MultiHasher, error) {
	algorithm, err := ParseHashAlgorithm(string(primary))
	if err != nil {
		return nil, err
	}
	return &MultiHasher{
		primary: algorithm,
		bcrypt:  NewBcryptHasher(bcryptCost),
		argon2:  NewArgon2idHasher(),
	}, nil
}

// Primary returns the algorithm used for new hashes.
func (h *MultiHasher) Primary() HashAlgorithm {
	return h.primary
}

// Hash produces a hash with the primary algorithm.
func (h *MultiHasher) Hash(password string) (string, error) {
	if h.primary == HashArgon2id {
		return h.argon2.Hash(password)
	}
	return h.bcrypt.Hash(password)
}

// Verify dispatches on the stored hash's algorithm prefix.
func (h *MultiHasher) Verify(password, encodedHash string) (bool, error) {
	algorithm, ok := DetectHashAlgorithm(encodedHash)
	if !ok {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("unrecognized hash format")
	}
	if algorithm == HashArgon2id {
		return h.argon2.Verify(password, encodedHash)
	}
	return h.bcrypt.Verify(password, encodedHash)
}

// DetectHashAlgorithm identifies the algorithm of an encoded hash.
func DetectHashAlgorithm(encodedHash string) (HashAlgorithm, bool) {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return HashArgon2id, true
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		return HashBcrypt, true
	default:
		return "", false
	}
}
