// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"addr":            "server.addr",
	"allowed-origins": "server.allowed_origins",
	"tls-cert":        "server.tls_cert",
	"tls-key":         "server.tls_key",
	"metrics-addr":    "metrics.addr",
	"log-format":      "log.format",
	"log-level":       "log.level",
	"hash-algorithm":  "auth.hash_algorithm",
	"database-driver": "database.driver",
	"database-url":    "database.url",
	"auto-migrate":    "database.auto_migrate",
	"connect-timeout": "database.connect_timeout",
}

// BindServeFlags registers the flags that override server settings.
func BindServeFlags(fs *pflag.FlagSet) {
	fs.String("addr", "127.0.0.1:3000", "API listen address")
	fs.StringSlice("allowed-origins", []string{"*"}, "CORS allowed origins")
	fs.String("tls-cert", "", "PEM certificate file for HTTPS")
	fs.String("tls-key", "", "PEM private key file for HTTPS")
	fs.String("metrics-addr", "127.0.0.1:9100", "metrics and health listen address (empty disables)")
	fs.Bool("auto-migrate", true, "apply pending migrations on startup")
	fs.Duration("connect-timeout", 30*time.Second, "database connection retry window")
}

// BindCommonFlags registers the flags shared by every command.
func BindCommonFlags(fs *pflag.FlagSet) {
	fs.String("log-format", "json", "log format (json or text)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("hash-algorithm", "bcrypt", "algorithm for new password hashes (bcrypt or argon2id)")
	fs.String("database-driver", DriverPostgres, "credential store driver (postgres or memory)")
	fs.String("database-url", "", "PostgreSQL connection URL")
}
