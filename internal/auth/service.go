// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package auth

import (
	"context"

	"github.com/samber/oops"
)

// Service combines credential verification and token handling.
type Service struct {
	verifier *CredentialVerifier
	tokens   *TokenService
}

// NewService creates a new Service.
func NewService(verifier *CredentialVerifier, tokens *TokenService) (*Service, error) {
	if verifier == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("credential verifier is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("token service is required")
	}
	return &Service{verifier: verifier, tokens: tokens}, nil
}

// Login verifies the credentials and returns a freshly issued token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	id, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(id)
}

// Authenticate returns the subject of a valid token.
func (s *Service) Authenticate(ctx context.Context, token string) (UserID, error) {
	return s.tokens.Verify(ctx, token)
}
