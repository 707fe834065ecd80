// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

// Package api serves the Parley chat HTTP surface under /chat.
//
// POST /chat/login exchanges a username and password for an API key, and
// GET /chat/openapi.json describes the API. Every other route requires that key in the X-API-Key header; the key is checked
// before the route handler runs. Failure kinds from the auth package are
// collapsed into HTTP statuses by statusFor, and response bodies never name
// the internal kind.
package api
