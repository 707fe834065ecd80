// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

// Package config loads Parley's configuration.
//
// Sources are merged in increasing precedence: built-in defaults, a YAML
// file, a .env file, PARLEY_* environment variables, then command-line
// flags.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"

	"github.com/parley-chat/parley/internal/auth"
	"github.com/parley-chat/parley/internal/logging"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const redacted = "[REDACTED]"

// Config is the effective configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server" json:"server" yaml:"server"`
	Metrics  MetricsConfig  `koanf:"metrics" json:"metrics" yaml:"metrics"`
	Log      LogConfig      `koanf:"log" json:"log" yaml:"log"`
	Auth     AuthConfig     `koanf:"auth" json:"auth" yaml:"auth"`
	Database DatabaseConfig `koanf:"database" json:"database" yaml:"database"`
}

// ServerConfig configures the chat API listener.
type ServerConfig struct {
	Addr           string   `koanf:"addr" json:"addr" yaml:"addr" jsonschema:"description=API listen address (host:port)"`
	AllowedOrigins []string `koanf:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins" jsonschema:"description=CORS origins; * admits any"`
	TLSCert        string   `koanf:"tls_cert" json:"tls_cert" yaml:"tls_cert" jsonschema:"description=PEM certificate file; serves HTTPS when set with tls_key"`
	TLSKey         string   `koanf:"tls_key" json:"tls_key" yaml:"tls_key" jsonschema:"description=PEM private key file for tls_cert"`
}

// TLSEnabled reports whether the API listener serves HTTPS.
func (s ServerConfig) TLSEnabled() bool {
	return s.TLSCert != "" && s.TLSKey != ""
}

// MetricsConfig configures the metrics and health listener.
type MetricsConfig struct {
	Addr string `koanf:"addr" json:"addr" yaml:"addr" jsonschema:"description=Metrics and health listen address; empty disables"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format" json:"format" yaml:"format" jsonschema:"enum=json,enum=text"`
	Level  string `koanf:"level" json:"level" yaml:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=warning,enum=error"`
}

// AuthConfig configures credential hashing and token signing.
type AuthConfig struct {
	Secret        string `koanf:"secret" json:"secret" yaml:"secret" jsonschema:"description=HMAC signing secret for API keys"`
	HashAlgorithm string `koanf:"hash_algorithm" json:"hash_algorithm" yaml:"hash_algorithm" jsonschema:"enum=bcrypt,enum=argon2id"`
	BcryptCost    int    `koanf:"bcrypt_cost" json:"bcrypt_cost" yaml:"bcrypt_cost" jsonschema:"minimum=4,maximum=31"`
}

// DatabaseConfig configures the credential store.
type DatabaseConfig struct {
	Driver         string        `koanf:"driver" json:"driver" yaml:"driver" jsonschema:"enum=postgres,enum=memory"`
	URL            string        `koanf:"url" json:"url" yaml:"url" jsonschema:"description=PostgreSQL connection URL"`
	AutoMigrate    bool          `koanf:"auto_migrate" json:"auto_migrate" yaml:"auto_migrate"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" json:"connect_timeout" yaml:"connect_timeout" jsonschema:"oneof_type=string;integer,description=Startup connection retry window (e.g. 30s)"`
}

// MarshalYAML renders ConnectTimeout as a duration string.
func (d DatabaseConfig) MarshalYAML() (any, error) {
	return map[string]any{
		"driver":          d.Driver,
		"url":             d.URL,
		"auto_migrate":    d.AutoMigrate,
		"connect_timeout": d.ConnectTimeout.String(),
	}, nil
}

// defaults are loaded before any other source.
var defaults = map[string]any{
	"server.addr":              "127.0.0.1:3000",
	"server.allowed_origins":   []string{"*"},
	"server.tls_cert":          "",
	"server.tls_key":           "",
	"metrics.addr":             "127.0.0.1:9100",
	"log.format":               "json",
	"log.level":                "info",
	"auth.secret":              "",
	"auth.hash_algorithm":      string(auth.HashBcrypt),
	"auth.bcrypt_cost":         bcrypt.DefaultCost,
	"database.driver":          DriverPostgres,
	"database.url":             "",
	"database.auto_migrate":    true,
	"database.connect_timeout": "30s",
}

// Validate reports every problem with c in a single CONFIG_INVALID error.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Server.Addr == "" {
		add("server.addr is required")
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		add("server.tls_cert and server.tls_key must be set together")
	}
	if c.Auth.Secret == "" {
		add("auth.secret is required")
	}
	if _, err := auth.ParseHashAlgorithm(c.Auth.HashAlgorithm); err != nil {
		add("auth.hash_algorithm %q is not supported", c.Auth.HashAlgorithm)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		add("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level %q is not a valid level", c.Log.Level)
	}
	if !logging.ValidFormat(c.Log.Format) {
		add("log.format %q must be json or text", c.Log.Format)
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			add("database.url is required for the postgres driver")
		}
	case DriverMemory:
	default:
		add("database.driver %q must be postgres or memory", c.Database.Driver)
	}
	if c.Database.ConnectTimeout <= 0 {
		add("database.connect_timeout must be positive")
	}

	if len(problems) > 0 {
		return oops.Code("CONFIG_INVALID").
			With("problems", problems).
			Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Redacted returns a copy of c safe to print: the signing secret and any
// database password are masked.
func (c *Config) Redacted() *Config {
	out := *c
	out.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	if out.Auth.Secret != "" {
		out.Auth.Secret = redacted
	}
	if out.Database.URL != "" {
		if u, err := url.Parse(out.Database.URL); err == nil {
			out.Database.URL = u.Redacted()
		} else {
			out.Database.URL = redacted
		}
	}
	return &out
}
