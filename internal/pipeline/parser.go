package pipeline

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/shipway.v1.schema.json
var schemaFS embed.FS

// Load reads and validates the pipeline definition in dir.
func Load(dir string) (*Definition, error) {
	return LoadFrom(filepath.Join(dir, DefinitionFileName))
}

// LoadFrom reads and validates the pipeline definition at path.
func LoadFrom(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline definition: %w", err)
	}
	return Parse(data)
}

// Parse decodes, schema-validates, and defaults a pipeline definition.
// Unknown fields are rejected so typos never silently drop a step.
func Parse(data []byte) (*Definition, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline definition: %w", err)
	}

	def.applyDefaults()

	if err := def.validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// validate checks semantic constraints the JSON schema cannot express.
func (d *Definition) validate() error {
	if d.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if d.Registry.Host == "" {
		return fmt.Errorf("registry.host is required")
	}
	if len(d.Verify) == 0 {
		return fmt.Errorf("verify must declare at least one step")
	}
	seen := make(map[string]bool, len(d.Verify))
	for i, step := range d.Verify {
		if step.Run == "" {
			return fmt.Errorf("verify step %d has no command", i+1)
		}
		if step.Name != "" && seen[step.Name] {
			return fmt.Errorf("duplicate verify step name %q", step.Name)
		}
		seen[step.Name] = true
	}
	for i, step := range d.Toolchain.Prepare {
		if step.Run == "" {
			return fmt.Errorf("toolchain.prepare step %d has no command", i+1)
		}
	}
	return nil
}

// validateSchema checks the raw document against the embedded JSON schema.
func validateSchema(data []byte) error {
	schemaBytes, err := schemaFS.ReadFile("schemas/shipway.v1.schema.json")
	if err != nil {
		return fmt.Errorf("failed to load pipeline schema: %w", err)
	}

	doc, err := yamlToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse pipeline definition: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("invalid pipeline definition:\n  - %s", strings.Join(msgs, "\n  - "))
	}

	return nil
}

// yamlToJSON re-encodes a YAML document as JSON for schema validation.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
