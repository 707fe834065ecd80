// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

// Package xdg resolves XDG Base Directory paths for Parley.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "parley"

// configFileName is the default config file inside ConfigDir.
const configFileName = "config.yaml"

// ConfigDir returns $XDG_CONFIG_HOME/parley, falling back to
// ~/.config/parley.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", oops.Code("XDG_NO_HOME").With("variable", "XDG_CONFIG_HOME").Wrap(err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName), nil
}

// ConfigFile returns the default config file path.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultConfigFile returns the default config file path when that file
// exists, and "" otherwise.
func DefaultConfigFile() string {
	path, err := ConfigFile()
	if err != nil {
		return ""
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}
	return path
}

// CertsDir returns the directory development TLS certificates are written
// to, ConfigDir()/certs.
func CertsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "certs"), nil
}
