// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

// Package auth provides the authentication core for Parley.
//
// # Credentials
//
// A Credential binds a unique, case-sensitive username to a password hash and
// a UserID. Credentials are created with NewCredential and persisted through a
// CredentialStore; the core itself only reads them.
//
// # Services
//
//   - CredentialVerifier - resolves a username and password to a UserID
//   - TokenService - issues and verifies HMAC-signed session tokens
//   - Service - login (verify then issue) and token authentication
//
// Every failure carries a Kind. Callers facing the network must collapse
// kinds into a single "unauthorized" answer; KindOf exists so that the
// translation happens in exactly one place.
//
// Tokens are stateless. There is no revocation: a correctly signed token is
// accepted until its expiry.
package auth
