// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// maxBodyBytes bounds request bodies read by decodeJSON.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error" jsonschema:"required"`
}

// decodeJSON decodes the request body into dst. On failure it writes a 400
// and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest)
		return false
	}
	return true
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client may have disconnected
	buf.WriteTo(w)
}

// writeError writes the public error body for status.
func writeError(w http.ResponseWriter, status int) {
	writeJSON(w, status, errorBody{Error: publicMessage(status)})
}
