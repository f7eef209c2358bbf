package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/gridtycoon/game/engine"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://gridtycoon.local/schemas/game-config.schema.json"

// Format is the on-disk encoding of a config file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Extensions lists the recognised config file extensions in lookup order
var Extensions = []string{".json", ".yaml", ".yml"}

var (
	compiledSchema *jsonschema.Schema
	schemaOnce     sync.Once
	schemaErr      error
)

// Schema returns the compiled JSON Schema for game config files
func Schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft7
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add config schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// FormatForPath picks the encoding from a file extension
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// Parse decodes a config document, checks it against the schema and overlays
// it on the default tuning. Fields missing from the document keep their
// default values; map entries and lists present in it replace the default
// entry whole. name is used when the document does not set one. The result
// has passed engine.ValidateGameConfig.
func Parse(data []byte, format Format, name string) (*engine.GameConfig, error) {
	doc, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	schema, err := Schema()
	if err != nil {
		return nil, err
	}
	var generic any
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	config := engine.DefaultConfig()
	config.Name = name
	config.Description = ""
	if err := json.Unmarshal(doc, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return config, nil
}

// toJSON normalises a JSON or YAML document to JSON bytes
func toJSON(data []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		if !json.Valid(data) {
			return nil, fmt.Errorf("failed to parse config: invalid JSON")
		}
		return data, nil
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML config: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported config format %q", format)
}

// Encode renders a config in the given format
func Encode(config *engine.GameConfig, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(config)
	case FormatJSON:
		return json.MarshalIndent(config, "", "  ")
	}
	return nil, fmt.Errorf("unsupported config format %q", format)
}
