// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/parley-chat/parley/internal/xdg"
)

// EnvPrefix prefixes every environment variable Parley reads.
const EnvPrefix = "PARLEY_"

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Sources names the inputs Load merges.
type Sources struct {
	// File is an explicit YAML config path. When empty the XDG default is
	// used if it exists.
	File string
	// EnvFile is a dotenv file. A missing file is ignored.
	EnvFile string
	// Flags are applied last. Only flags the user set override other
	// sources.
	Flags *pflag.FlagSet
}

// envKey maps PARLEY_DATABASE_CONNECT_TIMEOUT to database.connect_timeout.
// Every key is section.name, so only the first underscore separates levels.
func envKey(name string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_", ".", 1)
}

// envValue splits comma-separated lists for slice keys.
func envValue(key, value string) any {
	if key == "server.allowed_origins" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return value
}

// dotenv is a koanf provider over a .env file. Only non-empty PARLEY_*
// entries are kept.
type dotenv struct {
	path string
}

func (d dotenv) ReadBytes() ([]byte, error) {
	return nil, errors.New("dotenv provider does not support ReadBytes")
}

func (d dotenv) Read() (map[string]any, error) {
	vars, err := godotenv.Read(d.path)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by Load
	}
	flat := make(map[string]any, len(vars))
	for name, value := range vars {
		if !strings.HasPrefix(name, EnvPrefix) || value == "" {
			continue
		}
		key := envKey(name)
		flat[key] = envValue(key, value)
	}
	return maps.Unflatten(flat, "."), nil
}

// Load merges every source and returns the effective configuration. It does
// not call Validate.
func Load(src Sources) (*Config, error) {
	k, err := load(src)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_DECODE_FAILED").Wrap(err)
	}
	return &cfg, nil
}

func load(src Sources) (*koanf.Koanf, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, oops.Code("CONFIG_DEFAULTS_FAILED").With("key", key).Wrap(err)
		}
	}

	path := src.File
	if path == "" {
		path = xdg.DefaultConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_READ_FAILED").With("path", path).Wrap(err)
		}
	}

	if src.EnvFile != "" {
		if err := k.Load(dotenv{path: src.EnvFile}, nil); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, oops.Code("CONFIG_READ_FAILED").With("path", src.EnvFile).Wrap(err)
		}
	}

	envProvider := env.ProviderWithValue(EnvPrefix, ".", func(name, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		key := envKey(name)
		return key, envValue(key, value)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, oops.Code("CONFIG_ENV_FAILED").Wrap(err)
	}

	if src.Flags != nil {
		flags := posflag.ProviderWithFlag(src.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(src.Flags, f)
		})
		if err := k.Load(flags, nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	return k, nil
}
