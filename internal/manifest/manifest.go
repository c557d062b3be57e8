// Package manifest provides the declarative build manifest consumed by the
// image builder.
package manifest

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/build-manifest.v1.schema.json
var schemaFS embed.FS

// DefaultLogEnv is the environment variable built images default their
// logging verbosity through.
const DefaultLogEnv = "SHIPWAY_LOG"

// Manifest describes how to produce a container image from a source tree.
// It is read once per build and never mutated afterwards.
type Manifest struct {
	Version    string            `yaml:"version"`
	Image      string            `yaml:"image"`
	From       string            `yaml:"from"`
	Workdir    string            `yaml:"workdir"`
	Copy       []CopyStep        `yaml:"copy,omitempty"`
	Build      string            `yaml:"build"`
	User       User              `yaml:"user"`
	Env        map[string]string `yaml:"env,omitempty"`
	Entrypoint []string          `yaml:"entrypoint"`
}

// CopyStep copies part of the source tree into the image.
type CopyStep struct {
	Src  string `yaml:"src"`
	Dest string `yaml:"dest"`
}

// User declares the unprivileged runtime user and how it is created.
type User struct {
	Name string `yaml:"name"`
	// Create overrides the user-creation command. Left empty, a useradd
	// invocation is generated for Name.
	Create string `yaml:"create,omitempty"`
}

// LoadFrom reads and validates the build manifest at path.
func LoadFrom(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read build manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes, schema-validates, and defaults a build manifest.
func Parse(data []byte) (*Manifest, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse build manifest: %w", err)
	}

	m.applyDefaults()

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// applyDefaults fills optional fields with their conventional values.
func (m *Manifest) applyDefaults() {
	if m.Workdir == "" {
		m.Workdir = "/app"
	}
	if len(m.Copy) == 0 {
		m.Copy = []CopyStep{{Src: ".", Dest: "."}}
	}
	if m.Env == nil {
		m.Env = make(map[string]string)
	}
	// Every image carries a logging verbosity default.
	if _, ok := m.Env[DefaultLogEnv]; !ok {
		m.Env[DefaultLogEnv] = "info"
	}
	if m.User.Name != "" && m.User.Create == "" {
		m.User.Create = fmt.Sprintf("useradd --create-home --shell /usr/sbin/nologin %s", m.User.Name)
	}
}

// validateSchema checks the raw document against the embedded JSON schema.
func validateSchema(data []byte) error {
	schemaBytes, err := schemaFS.ReadFile("schemas/build-manifest.v1.schema.json")
	if err != nil {
		return fmt.Errorf("failed to load manifest schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse build manifest: %w", err)
	}
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to parse build manifest: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(docBytes),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("invalid build manifest:\n  - %s", strings.Join(msgs, "\n  - "))
	}

	return nil
}
