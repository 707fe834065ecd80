// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package api_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/parley-chat/parley/internal/api"
	"github.com/parley-chat/parley/internal/auth"
	"github.com/parley-chat/parley/internal/auth/memstore"
	"github.com/parley-chat/parley/internal/observability"
)

const testSecret = "api-test-secret"

type fixture struct {
	handler http.Handler
	metrics *observability.Metrics
	now     *time.Time
	logs    *bytes.Buffer
}

// newFixture wires a real auth.Service over an in-memory store holding
// admin/password (uid 0) and alice/wonderland (uid 42).
func newFixture(t *testing.T, origins ...string) *fixture {
	t.Helper()
	ctx := context.Background()

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	store := memstore.New()
	for _, u := range []struct {
		name, password string
		id             auth.UserID
	}{
		{"admin", "password", 0},
		{"alice", "wonderland", 42},
	} {
		hash, err := hasher.Hash(u.password)
		require.NoError(t, err)
		cred, err := auth.NewCredential(u.name, hash, u.id)
		require.NoError(t, err)
		require.NoError(t, store.InsertCredential(ctx, cred))
	}

	verifier, err := auth.NewCredentialVerifier(store, hasher)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	secret, err := auth.NewSigningSecret(testSecret)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(secret, auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	svc, err := auth.NewService(verifier, tokens)
	require.NoError(t, err)

	return newFixtureWith(t, svc, &now, origins...)
}

func newFixtureWith(t *testing.T, authn api.Authenticator, now *time.Time, origins ...string) *fixture {
	t.Helper()
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	logs := &bytes.Buffer{}
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	srv, err := api.NewServer(authn, api.Options{
		Addr:           "127.0.0.1:0",
		AllowedOrigins: origins,
		Logger:         slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Metrics:        metrics,
	})
	require.NoError(t, err)
	return &fixture{handler: srv.Handler(), metrics: metrics, now: now, logs: logs}
}

func (f *fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) login(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return f.do(t, req)
}

func (f *fixture) rooms(t *testing.T, query, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/chat/rooms"+query, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	return f.do(t, req)
}

// stubAuth returns fixed results.
type stubAuth struct {
	loginToken string
	loginErr   error
	authID     auth.UserID
	authErr    error
	panicLogin bool
}

func (s stubAuth) Login(context.Context, string, string) (string, error) {
	if s.panicLogin {
		panic("boom")
	}
	return s.loginToken, s.loginErr
}

func (s stubAuth) Authenticate(context.Context, string) (auth.UserID, error) {
	return s.authID, s.authErr
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}
