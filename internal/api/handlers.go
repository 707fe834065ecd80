// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package api

import (
	"net/http"
	"strconv"

	"github.com/parley-chat/parley/internal/auth"
	"github.com/parley-chat/parley/pkg/errutil"
)

type loginRequest struct {
	Username string `json:"username" jsonschema:"required"`
	Password string `json:"password" jsonschema:"required"`
}

type loginResponse struct {
	APIKey string `json:"api_key" jsonschema:"required,description=Value for the X-API-Key header"`
}

type roomList struct {
	Data []uint64 `json:"data" jsonschema:"required"`
}

// handleLogin exchanges credentials for an API key.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		s.metrics.RecordLogin("bad_request")
		return
	}

	token, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		kind := auth.KindOf(err)
		status, level := statusFor(kind)
		s.metrics.RecordLogin(outcome(kind))
		errutil.LogErrorContext(ctx, s.logger, level, "login failed", err,
			"request_id", RequestIDFrom(ctx))
		writeError(w, status)
		return
	}

	s.metrics.RecordLogin("success")
	writeJSON(w, http.StatusOK, loginResponse{APIKey: token})
}

// handleRooms is a placeholder listing. It echoes the page number and the
// caller's user ID.
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	uid, ok := UserIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized)
		return
	}

	var pn uint64
	if raw := r.URL.Query().Get("pn"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest)
			return
		}
		pn = n
	}

	writeJSON(w, http.StatusOK, roomList{Data: []uint64{pn, uint64(uid), 2}})
}
