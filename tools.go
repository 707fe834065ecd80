// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

//go:build tools

// Package main pins test dependencies to go.mod.
package main

import (
	// Testing frameworks
	_ "github.com/onsi/ginkgo/v2"
	_ "github.com/onsi/gomega"
	_ "github.com/stretchr/testify/assert"
	_ "github.com/stretchr/testify/mock"
	_ "github.com/stretchr/testify/require"

	// Test doubles
	_ "github.com/pashagolub/pgxmock/v4"
	_ "go.uber.org/goleak"
)
