// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package api

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/parley-chat/parley/internal/auth"
	"github.com/parley-chat/parley/internal/observability"
)

// Authenticator is the part of auth.Service the HTTP layer calls.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (auth.UserID, error)
}

// Options configures a Server.
type Options struct {
	// Addr is the listen address, "host:port".
	Addr string
	// AllowedOrigins lists CORS origins. "*" admits any origin.
	AllowedOrigins []string
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Metrics may be nil.
	Metrics *observability.Metrics
	// TLSConfig, when set, makes the listener serve HTTPS.
	TLSConfig *tls.Config
	// Version is reported in the OpenAPI document. Defaults to "dev".
	Version string
}

// Server serves the chat API.
type Server struct {
	addr       string
	auth       Authenticator
	logger     *slog.Logger
	metrics    *observability.Metrics
	handler    http.Handler
	listener   net.Listener
	httpServer *http.Server
	tlsConfig  *tls.Config
	openAPI    []byte
	running    atomic.Bool
}

// NewServer builds the API server and its route table.
func NewServer(authn Authenticator, opts Options) (*Server, error) {
	if authn == nil {
		return nil, oops.Code("API_INVALID_CONFIG").Errorf("authenticator is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	openAPI, err := marshalOpenAPI(version)
	if err != nil {
		return nil, err
	}

	s := &Server{
		addr:      opts.Addr,
		auth:      authn,
		logger:    logger,
		metrics:   opts.Metrics,
		tlsConfig: opts.TLSConfig,
		openAPI:   openAPI,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat/login", s.handleLogin)
	mux.Handle("GET /chat/rooms", s.requireAPIKey(http.HandlerFunc(s.handleRooms)))
	mux.HandleFunc("GET "+OpenAPIPath, s.handleOpenAPI)

	s.handler = chain(mux,
		recoverPanics(logger),
		func(h http.Handler) http.Handler { return otelhttp.NewHandler(h, "parley.api") },
		requestID,
		cors(opts.AllowedOrigins),
		accessLog(logger),
		instrument(opts.Metrics),
	)
	return s, nil
}

// Handler returns the fully wrapped route table.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves in the background.
// Serve failures arrive on the returned channel, which is closed when the
// server stops.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Code("API_ALREADY_RUNNING").Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.Code("API_LISTEN_FAILED").With("addr", s.addr).Wrap(err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("api server started", "addr", listener.Addr().String(), "tls", s.tlsConfig != nil)
	return errCh, nil
}

// Stop drains in-flight requests and shuts the listener down. Stopping a
// server that is not running is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.running.Store(true)
		return oops.Code("API_SHUTDOWN_FAILED").Wrap(err)
	}
	s.logger.Info("api server stopped")
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
