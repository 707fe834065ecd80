// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel/attribute"
)

// TokenLifespan is how long an issued token stays valid. The exp claim is
// encoded in whole seconds and truncated, so a token issued part way through
// a second expires up to one second short of TokenLifespan.
const TokenLifespan = 15 * time.Minute

// SigningSecret is the HMAC key shared by issuance and verification.
// It is built once from configuration and never mutated.
type SigningSecret struct {
	key []byte
}

// NewSigningSecret wraps secret as signing key material.
func NewSigningSecret(secret string) (SigningSecret, error) {
	if secret == "" {
		return SigningSecret{}, oops.Code("AUTH_INVALID_SECRET").Errorf("signing secret cannot be empty")
	}
	return SigningSecret{key: []byte(secret)}, nil
}

// IsZero reports whether s holds no key material.
func (s SigningSecret) IsZero() bool {
	return len(s.key) == 0
}

// String redacts the key.
func (s SigningSecret) String() string {
	return "[REDACTED]"
}

// Claims is the payload carried by a session token.
type Claims struct {
	Subject   UserID
	ExpiresAt time.Time
}

func (c Claims) registered() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   c.Subject.String(),
		ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
	}
}

func claimsFrom(rc *jwt.RegisteredClaims) (Claims, error) {
	if rc.ExpiresAt == nil {
		return Claims{}, errors.New("missing exp claim")
	}
	subject, err := ParseUserID(rc.Subject)
	if err != nil {
		return Claims{}, err
	}
	return Claims{Subject: subject, ExpiresAt: rc.ExpiresAt.Time}, nil
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// TokenService issues and verifies HS256-signed session tokens.
type TokenService struct {
	secret SigningSecret
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService creates a TokenService bound to secret.
func NewTokenService(secret SigningSecret, opts ...TokenOption) (*TokenService, error) {
	if secret.IsZero() {
		return nil, oops.Code("AUTH_INVALID_SECRET").Errorf("signing secret is required")
	}
	s := &TokenService{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	return s, nil
}

// Issue returns a signed token for subject that expires TokenLifespan from now.
func (s *TokenService) Issue(subject UserID) (string, error) {
	claims := Claims{Subject: subject, ExpiresAt: s.now().Add(TokenLifespan)}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims.registered())
	signed, err := token.SignedString(s.secret.key)
	if err != nil {
		return "", oops.Code("TOKEN_SIGNING_FAILED").With("subject", subject.String()).Wrap(err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns its subject.
// The signature is checked before any payload byte is decoded.
// Failures carry KindMalformedToken, KindBadSignature or KindExpired.
func (s *TokenService) Verify(ctx context.Context, token string) (id UserID, err error) {
	_, span := tracer.Start(ctx, "auth.verify_token")
	defer func() { endSpan(span, err) }()

	parts := strings.SplitN(token, ".", 3)
	if len(parts) != 3 {
		return 0, failure(KindMalformedToken, nil, "segments", len(parts))
	}

	sig, decodeErr := base64.RawURLEncoding.Strict().DecodeString(parts[2])
	if decodeErr != nil {
		return 0, failure(KindBadSignature, decodeErr)
	}
	if sigErr := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, s.secret.key); sigErr != nil {
		return 0, failure(KindBadSignature, sigErr)
	}

	var registered jwt.RegisteredClaims
	if _, parseErr := s.parser.ParseWithClaims(token, &registered, s.keyFunc); parseErr != nil {
		return 0, failure(classifyParseError(parseErr), parseErr)
	}

	claims, claimsErr := claimsFrom(&registered)
	if claimsErr != nil {
		return 0, failure(KindMalformedToken, claimsErr)
	}

	span.SetAttributes(attribute.String("auth.user_id", claims.Subject.String()))
	return claims.Subject, nil
}

func (s *TokenService) keyFunc(*jwt.Token) (any, error) {
	return s.secret.key, nil
}

func classifyParseError(err error) Kind {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return KindExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return KindBadSignature
	default:
		return KindMalformedToken
	}
}
