// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Parley Contributors

package config

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the config file schema.
const SchemaID = "https://parley.chat/schemas/config.schema.json"

var (
	compiledOnce   sync.Once
	compiledSchema *jschema.Schema
	compiledErr    error
)

// Schema returns the JSON Schema describing the YAML config file.
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := r.Reflect(&Config{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Parley configuration"
	schema.Description = "Schema for the parley config.yaml file"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("CONFIG_SCHEMA_FAILED").Wrap(err)
	}
	return data, nil
}

// ValidateDocument checks YAML config file contents against Schema. It
// catches unknown keys and wrongly typed values; semantic checks live in
// Config.Validate.
func ValidateDocument(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return oops.Code("CONFIG_INVALID_YAML").Wrap(err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	sch, err := compiled()
	if err != nil {
		return err
	}

	// Round-trip through JSON so the validator sees JSON number types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return oops.Code("CONFIG_INVALID_YAML").Wrap(err)
	}
	inst, err := jschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return oops.Code("CONFIG_INVALID_YAML").Wrap(err)
	}
	if err := sch.Validate(inst); err != nil {
		return oops.Code("CONFIG_SCHEMA_VIOLATION").Wrap(err)
	}
	return nil
}

func compiled() (*jschema.Schema, error) {
	compiledOnce.Do(func() {
		data, err := Schema()
		if err != nil {
			compiledErr = err
			return
		}
		doc, err := jschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compiledErr = oops.Code("CONFIG_SCHEMA_FAILED").Wrap(err)
			return
		}
		c := jschema.NewCompiler()
		if err := c.AddResource("config.schema.json", doc); err != nil {
			compiledErr = oops.Code("CONFIG_SCHEMA_FAILED").Wrap(err)
			return
		}
		compiledSchema, compiledErr = c.Compile("config.schema.json")
		if compiledErr != nil {
			compiledErr = oops.Code("CONFIG_SCHEMA_FAILED").Wrap(compiledErr)
		}
	})
	return compiledSchema, compiledErr
}

// YAML renders the redacted configuration.
func (c *Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.Redacted()); err != nil {
		return nil, oops.Code("CONFIG_ENCODE_FAILED").Wrap(err)
	}
	if err := enc.Close(); err != nil {
		return nil, oops.Code("CONFIG_ENCODE_FAILED").Wrap(err)
	}
	return buf.Bytes(), nil
}
